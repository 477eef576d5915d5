package narrative

import (
	"fmt"

	"github.com/sells-group/sds-assess/internal/model"
)

// Prompts holds the selector and answer templates of one extraction style.
type Prompts struct {
	// Selector is formatted with the section and the document.
	Selector string
	// Answer is formatted with the question and the selected context.
	Answer string
}

func (p Prompts) selector(section, text string) string {
	return fmt.Sprintf(p.Selector, section, text)
}

func (p Prompts) answer(question, context string) string {
	return fmt.Sprintf(p.Answer, question, context)
}

// FocusedPrompts select fragments and ask a fixed question.
var FocusedPrompts = Prompts{
	Selector: "You are an intelligent assistant specialized in analyzing Safety Data Sheets (SDS).\n" +
		"You will be given the full SDS text and a SECTION name.\n" +
		"Task: Extract only the sentences and fragments relevant to the SECTION. " +
		"If nothing is relevant, return an empty string.\n\n" +
		"SECTION: %s\n\n" +
		"DOCUMENT:\n%s\n\n" +
		"Return ONLY the relevant CONTEXT text.",
	Answer: "You are a precise assistant specialized in Safety Data Sheets.\n" +
		"Answer STRICTLY using only the provided CONTEXT. Do not invent or add external info.\n\n" +
		"If the document contains no relevant information, answer: 'The document does not provide this information.'\n\n" +
		"At the end of your answer, ALWAYS add a final line:\n" +
		"EXCEL_SUMMARY: <short summary or 'no information'>\n\n" +
		"Rules for EXCEL_SUMMARY:\n" +
		" - If no info: EXCEL_SUMMARY: no information\n" +
		" - If info exists: concise summary (max 50 words, max 200 chars), in English\n" +
		" - Prefer keywords, numbers, hazard codes, short phrases, comma-separated\n\n" +
		"QUESTION: %s\n\n" +
		"CONTEXT:\n%s",
}

// GeneralPrompts build one coherent context for the section and answer the
// question stored in the baseline cell.
var GeneralPrompts = Prompts{
	Selector: "You are an intelligent assistant specialized in analyzing Safety Data Sheets (SDS).\n" +
		"You will be given a full SDS document and a target SECTION name.\n" +
		"Task: Read the document, understand the whole context, and produce a single coherent CONTEXT text\n" +
		"that contains only the information relevant to the SECTION. If there is no relevant information, return an empty string.\n\n" +
		"SECTION: %s\n\n" +
		"DOCUMENT:\n%s\n\n" +
		"Return ONLY the CONTEXT text (no JSON, no explanation).",
	Answer: "You are a precise technical assistant specialized in Safety Data Sheets. " +
		"Answer STRICTLY using only the content retrieved from the provided document. " +
		"Do not invent or add external information. If the document contains no information " +
		"relevant to the question, state explicitly that the information is not available.\n\n" +
		"If the QUESTION requests only 'details' without specifying more, provide a comprehensive summary of ALL information " +
		"received from the document or retrieved context.\n\n" +
		"At the end of your answer, ALWAYS add a final line that starts exactly with:\n" +
		"EXCEL_SUMMARY: <one-line summary or 'no information'>\n\n" +
		"Rules for the EXCEL_SUMMARY (VERY IMPORTANT):\n" +
		" - If there is no relevant information, write exactly: EXCEL_SUMMARY: no information\n" +
		" - If there IS relevant information, use a concise summary suitable for a single Excel cell:\n" +
		"   - Keep it very short: max 50 words and max 200 characters.\n" +
		"   - Prefer keywords, numeric values, hazard codes (e.g., H315), or short phrases.\n" +
		"   - If multiple small items, use comma-separated short phrases (no newlines).\n" +
		" - The EXCEL_SUMMARY must always be in English.\n\n" +
		"Now answer the QUESTION using only document content.\n\n" +
		"QUESTION: %s\n\n" +
		"CONTEXT:\n%s",
}

// Group is one record's narrative fields and the section they are drawn from.
type Group struct {
	Domain  model.Domain
	Section string
	Fields  []string
	// Questions replaces the cell label as the question for a field.
	Questions map[string]string
	Prompts   Prompts
}

func (g Group) question(key string, cell *model.FieldCell) string {
	if q, ok := g.Questions[key]; ok {
		return q
	}
	return cell.Label
}

var hazardQuestions = map[string]string{
	"physical_form_and_quantity": "What is the physical form of the substance (gas, liquid, solid) " +
		"and in what packaging or quantity format is it supplied (e.g., bottle 200 ml, bag, sack, cylinder)?",
	"potential_routes_of_exposure": "What are the possible routes of exposure to the substance for humans? " +
		"(e.g., inhalation, skin contact, eye contact, ingestion).",
	"workplace_exposure_limits": "What are the Workplace Exposure Limits (WEL), TWA (8h), STEL (15 min), or other exposure thresholds " +
		"provided? Include numeric values and units.",
	"arising_harm": "What are the potential harms or adverse effects associated with exposure to this substance? " +
		"(e.g., toxic effects, respiratory issues, organ damage, skin/eye irritation).",
}

var groups = []Group{
	{
		Domain:    model.DomainHazards,
		Section:   "Hazards",
		Fields:    []string{"physical_form_and_quantity", "potential_routes_of_exposure", "workplace_exposure_limits", "arising_harm"},
		Questions: hazardQuestions,
		Prompts:   FocusedPrompts,
	},
	{
		Domain:  model.DomainWasteDisposal,
		Section: "Waste disposal measures, disposal waste",
		Fields:  []string{"handling_of_the_product_if_it_becomes_waste"},
	},
	{
		Domain:  model.DomainSpillManagement,
		Section: "Spill management, spills, information_and_details_about_Spill_management",
		Fields:  []string{"details"},
	},
	{
		Domain:  model.DomainFireProcedures,
		Section: "Fire procedures, Fire Fighting Measures, information_and_details_about_Fire_procedures",
		Fields:  []string{"details"},
	},
	{
		Domain:  model.DomainFirstAid,
		Section: "First aid procedures, First Aid Measures",
		Fields:  []string{"eyes", "skin", "if_ingested", "if_inhaled"},
	},
	{
		Domain:  model.DomainStorage,
		Section: "Storage, Safe Storage",
		Fields:  []string{"hazard_label_and_store_safely_on_shelf"},
	},
}

// Groups returns the narrative groups in extraction order.
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Keys returns every narrative field key across the groups.
func Keys() []string {
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Fields...)
	}
	return keys
}
