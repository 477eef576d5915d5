// Package checklist maps free text onto boolean checklist fields with
// supporting evidence and a free-text catch-all for everything else.
package checklist

import "regexp"

// Mark is the canonical value of a checklist field marked true.
const Mark = "X"

// Field is one boolean checklist entry.
type Field struct {
	Key string
	// Hint lists the cues the classifier should look for.
	Hint string
	// Category describes the field when excluding it from the catch-all.
	Category string
	// Patterns locate evidence lines in the summary.
	Patterns []*regexp.Regexp
}

// Spec parameterizes the mapper for one checklist domain.
type Spec struct {
	// Topic names the domain in logs and metrics.
	Topic string
	// Question asks the summary call for the relevant statements.
	Question string
	// Requirement describes what the classifier checks for.
	Requirement string
	Fields      []Field
	// ResidualKey is the catch-all field. Empty skips the residual call.
	ResidualKey string
	// ResidualNoun names the catch-all items in the residual prompt.
	ResidualNoun string
	// SummaryKey, when set, receives the summary itself with markdown
	// emphasis stripped.
	SummaryKey string
	// Instruction closes the summary prompt. Empty means bulletInstruction.
	Instruction string
}

const (
	bulletInstruction   = "Answer in bullet points, keeping the exact wording from the context whenever possible."
	explicitInstruction = "Answer only the explicit values and exclude other precautions."
)

func (s Spec) instruction() string {
	if s.Instruction == "" {
		return bulletInstruction
	}
	return s.Instruction
}

// Owned returns every key Map writes: the fields plus the catch-all and
// summary cells when configured.
func (s Spec) Owned() []string {
	keys := s.Keys()
	if s.ResidualKey != "" {
		keys = append(keys, s.ResidualKey)
	}
	if s.SummaryKey != "" {
		keys = append(keys, s.SummaryKey)
	}
	return keys
}

// Keys returns the field keys in order, excluding the catch-all.
func (s Spec) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Field returns the field with key, if any.
func (s Spec) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

var ppeSpec = Spec{
	Topic:       "ppe",
	Question:    "What are the main personal protection and exposure control risks or measures in the context",
	Requirement: "protection measures",
	Fields: []Field{
		{
			Key:      "wear_full_face_visor",
			Hint:     "full face visor, face shield",
			Category: "full face visor / face shield",
			Patterns: patterns(`\bface\s*shield\b`, `\bfull\s*face\s*visor\b`),
		},
		{
			Key:      "box_goggles_must_be_worn",
			Hint:     "eye protection, goggles, safety glasses",
			Category: "eye protection / goggles / safety glasses",
			Patterns: patterns(`\bgoggles\b`, `\bsafety\s*glasses\b`, `\beye\s*protection\b`),
		},
		{
			Key:      "protective_gloves_must_be_worn",
			Hint:     "protective gloves, hand protection",
			Category: "protective gloves / hand protection",
			Patterns: patterns(`\bprotective\s*gloves\b`, `\bhand\s*protection\b`, `\bgloves\b`, `\bnitrile\b`, `\bbutyl\b`),
		},
		{
			Key:      "laboratory_coats_must_be_worn",
			Hint:     "lab coat, protective clothing, body protection",
			Category: "lab coat / protective clothing / body protection",
			Patterns: patterns(`\blab\s*coat\b`, `\bprotective\s*clothing\b`, `\bbody\s*protection\b`),
		},
		{
			Key:      "use_local_exhaust_ventilation",
			Hint:     "local exhaust ventilation, fume hood",
			Category: "local exhaust ventilation / fume hood",
			Patterns: patterns(`\blocal\s*exhaust\s*ventilation\b`, `\bLEV\b`, `\bfume\s*hood\b`),
		},
		{
			Key:      "no_open_flames",
			Hint:     "no open flames, keep away from ignition sources",
			Category: "no open flames / ignition sources",
			Patterns: patterns(`\bno\s*open\s*flames\b`, `\bignition\s*sources\b`, `\bkeep\s*away\s*from\s*ignition\b`, `\bnon-?sparking\s*tools?\b`),
		},
	},
	ResidualKey:  "other_control_measures",
	ResidualNoun: "control or prevention measures",
}

var storageSpec = Spec{
	Topic:       "storage",
	Question:    "What are the main storage requirements or recommendations in the context",
	Requirement: "STORAGE requirements",
	Fields: []Field{
		{
			Key:      "flammables_cupboard",
			Hint:     "store in flammables cabinet/cupboard; keep away from ignition sources/heat",
			Category: "flammables cupboard (flammables cabinet/cupboard; ignition sources)",
			Patterns: patterns(`\bflammables?\b`, `\bflammables\s*cupboard\b`, `\bstore in flammables?( cabinet| cupboard)?\b`, `\bkeep away from (heat|open flames|ignition sources)\b`),
		},
		{
			Key:      "corrosives_cupboard",
			Hint:     "store in corrosives cabinet/cupboard; acids/bases segregation",
			Category: "corrosives cupboard (corrosives cabinet; acids/bases segregation)",
			Patterns: patterns(`\bcorrosives?\b`, `\bcorrosives?\s*(cupboard|cabinet)\b`, `\bstore in (a )?corrosives? (cabinet|cupboard)\b`, `\bacids?\b`, `\bbases?\b`),
		},
		{
			Key:      "poisons_cupboard",
			Hint:     "store in poisons/toxics cabinet; locked storage",
			Category: "poisons cupboard (toxics cabinet; locked storage)",
			Patterns: patterns(`\bpoison(s|ous)?\b`, `\btox(ic|icity)\b`, `\bpoisons?\s*(cupboard|cabinet)\b`, `\bstore in locked (cabinet|cupboard)\b`),
		},
		{
			Key:      "ventilated_storage",
			Hint:     "ventilated storage, well-ventilated place, fume hood area",
			Category: "ventilated storage (well-ventilated place; fume hood area)",
			Patterns: patterns(`\bventilated storage\b`, `\bventilated area\b`, `\bstore in a well-ventilated place\b`, `\bkeep container tightly closed in a well-ventilated place\b`, `\blocal exhaust\b`, `\bfume hood\b`),
		},
		{
			Key:      "gas_cylinder",
			Hint:     "gas cylinders handling/storage, upright, secured, caps on",
			Category: "gas cylinder storage (upright; secured; caps on)",
			Patterns: patterns(`\bgas cylinders?\b`, `\bcompressed gas(es)?\b`, `\bpressurized\b`, `\bsecure cylinders?\b`, `\bupright\b`, `\bcaps? in place\b`),
		},
		{
			Key: "cold_storage",
			Hint: `ONLY IF refrigeration or cold room is explicitly stated (e.g., "refrigerate", "cold storage", "store at/below 10°C", "2-8°C"). ` +
				`NOT phrases like "keep cool", "store in a cool, dry/well-ventilated place".`,
			Category: "cold storage (refrigerate; keep cool; temp control)",
			Patterns: patterns(`\bcold storage\b`, `\brefrigerated?\b`, `\bstore (at|below) \d+ ?°?C\b`, `\btemperature control\b`),
		},
		{
			Key:      "dessicated_storage",
			Hint:     "desiccator, dry storage, keep dry, protect from moisture",
			Category: "dessicated storage (desiccator; keep dry; protect from moisture)",
			Patterns: patterns(`\bdessicat(ed|ion)?\b`, `\bdesiccator\b`, `\bdry storage\b`, `\bkeep dry\b`, `\bprotect from moisture\b`, `\bmoisture sensitive\b`),
		},
	},
	ResidualKey:  "special_storage_describe",
	ResidualNoun: "storage measures",
}

// pictogramSpec marks the GHS pictograms. The hazard summary itself is kept
// as the hazard statements cell and there is no catch-all.
var pictogramSpec = Spec{
	Topic:       "pictograms",
	Question:    "What are the main hazard statement risks or measures in the context",
	Requirement: "hazard pictograms",
	Instruction: explicitInstruction,
	SummaryKey:  "hazard_statements",
	Fields: []Field{
		{
			Key:      "explosive",
			Hint:     "explosive risk explicitly mentioned (explosive, unstable explosive, mass explosion)",
			Category: "explosive",
			Patterns: patterns(`\bexplos(ive|ives|ion)\b`, `\bH20[0-5]\b`),
		},
		{
			Key:      "flammable",
			Hint:     "flammable risk explicitly mentioned (flammable liquid, vapour, solid or gas)",
			Category: "flammable",
			Patterns: patterns(`\b(extremely |highly )?flammable\b`, `\bH22[0-8]\b`),
		},
		{
			Key:      "oxidising",
			Hint:     "oxidising risk explicitly mentioned (oxidiser, may intensify fire)",
			Category: "oxidising",
			Patterns: patterns(`\boxidi[sz](ing|er)\b`, `\bintensify fire\b`, `\bH27[0-2]\b`),
		},
		{
			Key:      "gas_under_pressure",
			Hint:     "gas under pressure explicitly mentioned (compressed, liquefied or refrigerated gas)",
			Category: "gas under pressure",
			Patterns: patterns(`\bgas(es)? under pressure\b`, `\b(compressed|liquefied|refrigerated) gas\b`, `\bH28[01]\b`),
		},
		{
			Key:      "acute_toxicity",
			Hint:     "acute toxicity explicitly mentioned (toxic or fatal if swallowed, inhaled or in contact with skin)",
			Category: "acute toxicity",
			Patterns: patterns(`\bacute(ly)? toxic`, `\b(toxic|fatal) if\b`, `\bH3[013][01]\b`),
		},
		{
			Key:      "corrosive",
			Hint:     "corrosive risk explicitly mentioned (severe skin burns, serious eye damage, corrosive to metals)",
			Category: "corrosive",
			Patterns: patterns(`\bcorrosi(ve|on)\b`, `\bsevere skin burns\b`, `\bserious eye damage\b`, `\bH314\b`, `\bH318\b`, `\bH290\b`),
		},
		{
			Key:      "health_hazard",
			Hint:     "health hazard explicitly mentioned (harmful, irritation, skin sensitisation, drowsiness)",
			Category: "health hazard",
			Patterns: patterns(`\bharmful\b`, `\birritat(ion|ing)\b`, `\ballergic skin\b`, `\bdrowsiness\b`, `\bH3(02|12|32|15|17|19|35|36)\b`),
		},
		{
			Key:      "serious_health_hazard",
			Hint:     "ONLY IF an extreme danger is explicitly stated (cancer, genetic defects, fertility, organ damage, fatal aspiration)",
			Category: "serious health hazard",
			Patterns: patterns(`\bcarcinogen`, `\bcancer\b`, `\bgenetic defects\b`, `\bfertility\b`, `\bdamage to organs\b`, `\bairways\b`, `\bH3(04|34|40|41|50|51|60|61|70|71|72|73)\b`),
		},
		{
			Key:      "hazardous_to_the_environment",
			Hint:     "environmental hazard explicitly mentioned (toxic to aquatic life, long lasting effects)",
			Category: "hazardous to the environment",
			Patterns: patterns(`\baquatic\b`, `\benvironment(al)?\b`, `\bH4[01]\d\b`),
		},
	},
}

// PPESpec returns the personal-protection checklist.
func PPESpec() Spec { return ppeSpec }

// StorageSpec returns the storage checklist.
func StorageSpec() Spec { return storageSpec }

// PictogramSpec returns the hazard pictogram checklist.
func PictogramSpec() Spec { return pictogramSpec }
