package analysis

// Prompt templates for each analysis task. Each asks for a fixed layout the
// section parser understands.

const summaryPrompt = `You are an expert business analyst. Write a concise executive briefing of the company below.
Use short markdown paragraphs covering what the company does, its market position, financial health, and notable recent developments.
Do not invent facts that are not in the material.

Material:
%s`

const swotPrompt = `You are an expert business analyst. Produce a SWOT analysis of %s from the material below.
Respond with exactly four sections headed "Strengths", "Weaknesses", "Opportunities", and "Threats", each followed by bullet points.
Only use facts from the material.

Material:
%s`

const trendsPrompt = `You are an expert business analyst. From the material below, list the most important business and financial trends as bullet points under a "Trends" heading.
Each bullet is one self-contained statement. Only use facts from the material.

Material:
%s`

const risksPrompt = `You are an expert business analyst. From the material below for %s, list risk factors and growth opportunities.
Respond with exactly two sections headed "Red Flags" and "Opportunities", each followed by bullet points.
Only use facts from the material.

Material:
%s`

const timelinePrompt = `You are an expert business analyst. From the material below, build a company timeline for %s.
Respond with a section headed "Timeline" followed by bullet points, each starting with a 4-digit year, like "- 2016: Acquired Example Corp".
Only include events with a known year.

Material:
%s`

const combinedPrompt = `You are an expert business analyst. Analyze the company below and respond with these sections in order, each heading on its own line:
"Summary" (short paragraphs), "Strengths", "Weaknesses", "Opportunities", "Threats", "Trends", "Red Flags", "Risk Opportunities", "Timeline" (bullets starting with a 4-digit year).
Use bullet points inside every section except Summary. Only use facts from the material.

Material:
%s`

const answerPrompt = `You are an expert business analyst. Answer the question using ONLY the company material below.
If the material does not contain the answer, say so plainly.

Material:
%s

Question: %s`

const comparePrompt = `You are an expert business analyst. Compare the two companies described below.
Cover market position, financials, strategy, and risks, and finish with a short verdict on relative strengths.

Company A:
%s

Company B:
%s`

const leadershipPrompt = `Extract the executive leadership team of %s from the material below.
Respond with ONLY a JSON array, no prose and no code fences, where each element is {"name": "...", "role": "..."}.
List only people named in the material.

Material:
%s`

const themesPrompt = `Group the numbered news items below into a few short thematic headings for a weekly digest.
Respond with one line per theme in the format "Theme Name: 1, 4, 7" referencing item numbers. Every item number appears exactly once.

News items:
%s`
