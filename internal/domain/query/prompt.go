package query

import (
	"strings"
	"time"
)

// systemPrompt sets the assistant persona for the completion call.
const systemPrompt = "You are a medical assistant helping a patient understand their medical documents. Your goal is to provide helpful, accurate information based on the patient's specific medical document content and established medical knowledge."

// promptInstructions is the grounding rulebook appended to every prompt.
// The patient/reference separation is enforced structurally by the
// labeled sections above it; these instructions direct the model to keep
// that separation in its answer.
const promptInstructions = `CRITICAL INSTRUCTIONS:
1. **PRIMARY FOCUS**: Answer based ONLY on the patient's specific document data shown above in "PATIENT'S DOCUMENT INFORMATION" section.
2. **REFERENCE VALUES vs PATIENT VALUES**: The "MEDICAL KNOWLEDGE BASE CONTEXT" contains reference ranges and medical guidelines - these are NOT the patient's actual values. NEVER present reference ranges as if they are the patient's test results.
3. **Diagnostic Recommendations**: When abnormal findings are present, provide specific diagnostic recommendations based on medical guidelines.
4. **Medication Queries**: For medication questions, ONLY report what is actually mentioned in the patient's document. DO NOT suggest medications from general medical knowledge.
5. **Accuracy**: NEVER make up or invent test values, medications, or findings that aren't in the patient's document.
6. **Exact Values**: When mentioning the patient's results, quote the EXACT values from their document only.
7. **Clinical Significance**: Use medical knowledge to explain the importance of the patient's actual findings.
8. **Clear Distinction**: Always clearly distinguish between "your test shows..." (patient data) and "normal ranges are..." (reference data).

SPECIAL HANDLING FOR ABNORMAL CARDIAC FINDINGS:
- If HFpEF score is elevated (4 or higher), explain the intermediate/high probability and recommend comprehensive evaluation
- If diastolic dysfunction is present, explain its significance and monitoring needs
- If multiple abnormal findings are present, emphasize the need for cardiology consultation
- Always provide specific, actionable recommendations based on current medical guidelines

MEDICATION QUERY HANDLING:
- If no medications are found in the document, clearly state this fact
- DO NOT suggest medications from medical knowledge - only report what's in the patient's document
- If medications are mentioned, list them exactly as they appear in the document

Instructions for formatting your response:
1. Use markdown formatting for readability
2. Use bullet points for lists
3. Use numbered lists (1., 2., 3.) for steps and recommendations
4. Create tables for test results comparison when applicable
5. Use bold for important values and findings: **[value]**
6. Use headings to organize sections (## for main sections)
7. For abnormal values, create a "Clinical Significance" section
8. Include a "Recommended Next Steps" section for abnormal findings
9. Use clear, patient-friendly language while maintaining medical accuracy

Content Requirements:
1. Answer the patient's question based on THEIR specific document data
2. Use medical knowledge to provide context and interpretation
3. Explain medical terms in simple language
4. Be conversational and reassuring but medically accurate
5. For abnormal findings, provide specific, actionable recommendations
6. Focus on what the patient's specific results mean for their health
7. Include relevant risk factors and clinical significance when applicable`

// PromptInput carries everything Assemble needs. PatientSections already
// include vector excerpts, structured fallback lines, cardiac findings,
// and medication lines in retrieval order.
type PromptInput struct {
	Query             string
	PatientSections   []string
	KnowledgeContents []string
	Entities          []string
	FileName          string
	UploadDate        time.Time
}

// Assemble builds the grounding prompt. Patient data and reference data
// are kept in separately labeled sections; the separation is the
// correctness boundary of the whole pipeline, so it lives here in
// structure rather than in model behavior.
func Assemble(in PromptInput) (system, prompt string) {
	var b strings.Builder

	b.WriteString("PATIENT'S DOCUMENT INFORMATION:\n")
	if len(in.PatientSections) > 0 {
		b.WriteString(strings.Join(in.PatientSections, "\n\n"))
	} else {
		b.WriteString("No specific patient data found related to the query.")
	}
	b.WriteString("\n\n")

	if len(in.Entities) > 0 {
		b.WriteString("RELEVANT MEDICAL ENTITIES FROM PATIENT'S DOCUMENT:\n")
		b.WriteString(strings.Join(in.Entities, ", "))
		b.WriteString("\n\n")
	}

	b.WriteString("MEDICAL KNOWLEDGE BASE CONTEXT (for reference and interpretation ONLY):\n")
	if len(in.KnowledgeContents) > 0 {
		b.WriteString(strings.Join(in.KnowledgeContents, "\n\n"))
	} else {
		b.WriteString("No specific medical knowledge found for this query.")
	}
	b.WriteString("\n\n")

	b.WriteString("Document metadata:\n")
	b.WriteString("- Document name: " + in.FileName + "\n")
	b.WriteString("- Upload date: " + in.UploadDate.Format(time.RFC3339) + "\n\n")

	b.WriteString("User question: " + in.Query + "\n\n")
	b.WriteString(promptInstructions)

	return systemPrompt, b.String()
}
