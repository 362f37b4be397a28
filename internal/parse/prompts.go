package parse

import "fmt"

// maxPromptText truncates OCR text to fit small local-model context windows.
const maxPromptText = 4000

const voterPromptTemplate = `You are a data extraction assistant.
Below is raw text extracted from an electoral roll using OCR.
Identify the voter records and output a valid JSON.

Format:
{
  "voters": [
    {
      "epic_number": "...",
      "name": "...",
      "relation_type": "Father/Mother/Husband",
      "relation_name": "...",
      "house_number": "...",
      "age": 0,
      "gender": "Male/Female"
    }
  ]
}

Rules:
- Only output valid JSON.
- If a field is missing, use null or empty string.
- Ignore headers/footers.

Raw Text:
%s`

const headerPromptTemplate = `You are a data extraction assistant.
Below is raw text from the header page of an electoral roll section.
Extract the polling station metadata and output a valid JSON.

Format:
{
  "part_no": "...",
  "section_no": "...",
  "booth_no": "...",
  "location_name": "...",
  "assembly_constituency": "..."
}

Rules:
- Only output valid JSON.
- If a field is missing, use null or empty string.

Raw Text:
%s`

// VoterPrompt builds the parse instruction for a data segment's OCR text.
func VoterPrompt(ocrText string) string {
	return fmt.Sprintf(voterPromptTemplate, truncate(ocrText, maxPromptText))
}

// HeaderPrompt builds the parse instruction for a header page's OCR text.
func HeaderPrompt(ocrText string) string {
	return fmt.Sprintf(headerPromptTemplate, truncate(ocrText, maxPromptText))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
