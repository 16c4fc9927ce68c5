package extraction

import (
	"fmt"
	"strings"
)

const responseSchema = `{
  "profile": {
    "name": "string", "phone": "string", "address": "string",
    "institution": "string", "website": "string"
  },
  "categories": [
    {
      "name": "string",
      "entries": [
        {
          "title": "string (required)",
          "description": "string",
          "date": "string, the date exactly as written",
          "location": "string",
          "url": "string",
          "external_id": "string",
          "secondary_id": "string"
        }
      ]
    }
  ]
}`

const outputRules = `Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- Every entry must have a non-empty title. Omit any field you cannot find; never invent values.
- Copy dates exactly as written in the text; do not reformat them.
- If nothing can be extracted, return {"categories": []}.
- The JSON must parse without errors; no trailing commas and no text outside the object.`

const documentPromptTemplate = `You extract structured records from one section of a curriculum vitae or resume.
Group entries under the section headings the document uses (for example "Education", "Publications",
"Awards"). %s
%s`

const firstChunkProfileRule = `This is the beginning of the document: also fill "profile" with the person's name,
phone, address, institution and website when they appear.`

const laterChunkProfileRule = `This is not the beginning of the document: omit "profile".`

const emailPromptTemplate = `You extract professional accomplishments announced in a forwarded email: papers
accepted, talks given, grants or awards received, appointments. Use the category name the item would have on a CV.
Omit "profile". Ignore signatures, quoted replies and newsletters that do not concern the recipient.
%s`

const searchResultPromptTemplate = `You convert one bibliographic search result into a CV publication entry.
Put it in a category named "Publications". Use the database record identifier as "external_id" and the DOI,
if present, as "secondary_id". The description should list the authors and the venue. Omit "profile".
%s`

func documentSystemPrompt(isFirst bool) string {
	rule := laterChunkProfileRule
	if isFirst {
		rule = firstChunkProfileRule
	}
	return fmt.Sprintf(documentPromptTemplate, rule, fmt.Sprintf(outputRules, responseSchema))
}

func emailSystemPrompt() string {
	return fmt.Sprintf(emailPromptTemplate, fmt.Sprintf(outputRules, responseSchema))
}

func searchResultSystemPrompt() string {
	return fmt.Sprintf(searchResultPromptTemplate, fmt.Sprintf(outputRules, responseSchema))
}

func documentUserPrompt(chunk string, index, total int) string {
	if total <= 1 {
		return chunk
	}
	return fmt.Sprintf("Section %d of %d:\n\n%s", index+1, total, chunk)
}

func emailUserPrompt(subject, body string) string {
	var b strings.Builder
	if subject != "" {
		b.WriteString("Subject: ")
		b.WriteString(subject)
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	return b.String()
}
