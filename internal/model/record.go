package model

import "github.com/rotisserie/eris"

// Domain identifies one hazard-assessment record group.
type Domain string

// Record group domains. The values double as baseline file stems.
const (
	DomainHazards         Domain = "hazards"
	DomainWasteDisposal   Domain = "waste_disposal_measures"
	DomainSpillManagement Domain = "spill_management"
	DomainFireProcedures  Domain = "fire_procedures"
	DomainFirstAid        Domain = "first_aid_procedures"
	DomainStorage         Domain = "storage"
)

// AllDomains returns every domain in projection order.
func AllDomains() []Domain {
	return []Domain{
		DomainWasteDisposal,
		DomainStorage,
		DomainFireProcedures,
		DomainFirstAid,
		DomainHazards,
		DomainSpillManagement,
	}
}

// Field keys shared across record groups.
const (
	KeyChemicalName = "chemical_name"
	KeySDSReference = "sds_reference"
	KeyHazardGroup  = "hazard_group"

	KeySeverity         = "severity"
	KeyLikelihoodBefore = "likelihood_before_control_measures"
	KeyLikelihoodAfter  = "likelihood_after_control_measures"
)

// Record is a typed record group. Cells returns every present cell in a
// stable order; nil members are skipped.
type Record interface {
	Domain() Domain
	Cells() []NamedCell
}

// Cell returns the cell with the given key, or nil.
func Cell(r Record, key string) *FieldCell {
	for _, nc := range r.Cells() {
		if nc.Key == key {
			return nc.Cell
		}
	}
	return nil
}

// CellsNamed collects every cell with the given key across records.
func CellsNamed(key string, records ...Record) []*FieldCell {
	var out []*FieldCell
	for _, r := range records {
		if r == nil {
			continue
		}
		for _, nc := range r.Cells() {
			if nc.Key == key {
				out = append(out, nc.Cell)
			}
		}
	}
	return out
}

func collect(cells ...NamedCell) []NamedCell {
	out := make([]NamedCell, 0, len(cells))
	for _, nc := range cells {
		if nc.Cell != nil {
			out = append(out, nc)
		}
	}
	return out
}

// Hazards is the main assessment sheet: identity, hazard group, risk rating,
// narrative hazard fields and the personal-protection checklist.
type Hazards struct {
	ChemicalName     *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	SDSReference     *FieldCell `json:"sds_reference,omitempty" yaml:"sds_reference,omitempty"`
	HazardGroup      *FieldCell `json:"hazard_group,omitempty" yaml:"hazard_group,omitempty"`
	Severity         *FieldCell `json:"severity,omitempty" yaml:"severity,omitempty"`
	LikelihoodBefore *FieldCell `json:"likelihood_before_control_measures,omitempty" yaml:"likelihood_before_control_measures,omitempty"`
	LikelihoodAfter  *FieldCell `json:"likelihood_after_control_measures,omitempty" yaml:"likelihood_after_control_measures,omitempty"`

	PhysicalFormAndQuantity   *FieldCell `json:"physical_form_and_quantity,omitempty" yaml:"physical_form_and_quantity,omitempty"`
	PotentialRoutesOfExposure *FieldCell `json:"potential_routes_of_exposure,omitempty" yaml:"potential_routes_of_exposure,omitempty"`
	WorkplaceExposureLimits   *FieldCell `json:"workplace_exposure_limits,omitempty" yaml:"workplace_exposure_limits,omitempty"`
	ArisingHarm               *FieldCell `json:"arising_harm,omitempty" yaml:"arising_harm,omitempty"`

	WearFullFaceVisor          *FieldCell `json:"wear_full_face_visor,omitempty" yaml:"wear_full_face_visor,omitempty"`
	BoxGogglesMustBeWorn       *FieldCell `json:"box_goggles_must_be_worn,omitempty" yaml:"box_goggles_must_be_worn,omitempty"`
	ProtectiveGlovesMustBeWorn *FieldCell `json:"protective_gloves_must_be_worn,omitempty" yaml:"protective_gloves_must_be_worn,omitempty"`
	LaboratoryCoatsMustBeWorn  *FieldCell `json:"laboratory_coats_must_be_worn,omitempty" yaml:"laboratory_coats_must_be_worn,omitempty"`
	UseLocalExhaustVentilation *FieldCell `json:"use_local_exhaust_ventilation,omitempty" yaml:"use_local_exhaust_ventilation,omitempty"`
	NoOpenFlames               *FieldCell `json:"no_open_flames,omitempty" yaml:"no_open_flames,omitempty"`
	OtherControlMeasures       *FieldCell `json:"other_control_measures,omitempty" yaml:"other_control_measures,omitempty"`

	HazardStatements          *FieldCell `json:"hazard_statements,omitempty" yaml:"hazard_statements,omitempty"`
	Explosive                 *FieldCell `json:"explosive,omitempty" yaml:"explosive,omitempty"`
	Flammable                 *FieldCell `json:"flammable,omitempty" yaml:"flammable,omitempty"`
	Oxidising                 *FieldCell `json:"oxidising,omitempty" yaml:"oxidising,omitempty"`
	GasUnderPressure          *FieldCell `json:"gas_under_pressure,omitempty" yaml:"gas_under_pressure,omitempty"`
	AcuteToxicity             *FieldCell `json:"acute_toxicity,omitempty" yaml:"acute_toxicity,omitempty"`
	Corrosive                 *FieldCell `json:"corrosive,omitempty" yaml:"corrosive,omitempty"`
	HealthHazard              *FieldCell `json:"health_hazard,omitempty" yaml:"health_hazard,omitempty"`
	SeriousHealthHazard       *FieldCell `json:"serious_health_hazard,omitempty" yaml:"serious_health_hazard,omitempty"`
	HazardousToTheEnvironment *FieldCell `json:"hazardous_to_the_environment,omitempty" yaml:"hazardous_to_the_environment,omitempty"`
}

// Domain implements Record.
func (h *Hazards) Domain() Domain { return DomainHazards }

// Cells implements Record.
func (h *Hazards) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, h.ChemicalName},
		NamedCell{KeySDSReference, h.SDSReference},
		NamedCell{KeyHazardGroup, h.HazardGroup},
		NamedCell{KeySeverity, h.Severity},
		NamedCell{KeyLikelihoodBefore, h.LikelihoodBefore},
		NamedCell{KeyLikelihoodAfter, h.LikelihoodAfter},
		NamedCell{"physical_form_and_quantity", h.PhysicalFormAndQuantity},
		NamedCell{"potential_routes_of_exposure", h.PotentialRoutesOfExposure},
		NamedCell{"workplace_exposure_limits", h.WorkplaceExposureLimits},
		NamedCell{"arising_harm", h.ArisingHarm},
		NamedCell{"wear_full_face_visor", h.WearFullFaceVisor},
		NamedCell{"box_goggles_must_be_worn", h.BoxGogglesMustBeWorn},
		NamedCell{"protective_gloves_must_be_worn", h.ProtectiveGlovesMustBeWorn},
		NamedCell{"laboratory_coats_must_be_worn", h.LaboratoryCoatsMustBeWorn},
		NamedCell{"use_local_exhaust_ventilation", h.UseLocalExhaustVentilation},
		NamedCell{"no_open_flames", h.NoOpenFlames},
		NamedCell{"other_control_measures", h.OtherControlMeasures},
		NamedCell{"hazard_statements", h.HazardStatements},
		NamedCell{"explosive", h.Explosive},
		NamedCell{"flammable", h.Flammable},
		NamedCell{"oxidising", h.Oxidising},
		NamedCell{"gas_under_pressure", h.GasUnderPressure},
		NamedCell{"acute_toxicity", h.AcuteToxicity},
		NamedCell{"corrosive", h.Corrosive},
		NamedCell{"health_hazard", h.HealthHazard},
		NamedCell{"serious_health_hazard", h.SeriousHealthHazard},
		NamedCell{"hazardous_to_the_environment", h.HazardousToTheEnvironment},
	)
}

// WasteDisposal covers disposal of the product once it becomes waste.
type WasteDisposal struct {
	ChemicalName    *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	HazardGroup     *FieldCell `json:"hazard_group,omitempty" yaml:"hazard_group,omitempty"`
	HandlingAsWaste *FieldCell `json:"handling_of_the_product_if_it_becomes_waste,omitempty" yaml:"handling_of_the_product_if_it_becomes_waste,omitempty"`
}

// Domain implements Record.
func (w *WasteDisposal) Domain() Domain { return DomainWasteDisposal }

// Cells implements Record.
func (w *WasteDisposal) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, w.ChemicalName},
		NamedCell{KeyHazardGroup, w.HazardGroup},
		NamedCell{"handling_of_the_product_if_it_becomes_waste", w.HandlingAsWaste},
	)
}

// SpillManagement covers accidental release measures.
type SpillManagement struct {
	ChemicalName *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	Details      *FieldCell `json:"details,omitempty" yaml:"details,omitempty"`
}

// Domain implements Record.
func (s *SpillManagement) Domain() Domain { return DomainSpillManagement }

// Cells implements Record.
func (s *SpillManagement) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, s.ChemicalName},
		NamedCell{"details", s.Details},
	)
}

// FireProcedures covers fire-fighting measures.
type FireProcedures struct {
	ChemicalName *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	Details      *FieldCell `json:"details,omitempty" yaml:"details,omitempty"`
}

// Domain implements Record.
func (f *FireProcedures) Domain() Domain { return DomainFireProcedures }

// Cells implements Record.
func (f *FireProcedures) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, f.ChemicalName},
		NamedCell{"details", f.Details},
	)
}

// FirstAid covers first-aid measures per exposure route.
type FirstAid struct {
	ChemicalName *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	Eyes         *FieldCell `json:"eyes,omitempty" yaml:"eyes,omitempty"`
	Skin         *FieldCell `json:"skin,omitempty" yaml:"skin,omitempty"`
	IfIngested   *FieldCell `json:"if_ingested,omitempty" yaml:"if_ingested,omitempty"`
	IfInhaled    *FieldCell `json:"if_inhaled,omitempty" yaml:"if_inhaled,omitempty"`
}

// Domain implements Record.
func (f *FirstAid) Domain() Domain { return DomainFirstAid }

// Cells implements Record.
func (f *FirstAid) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, f.ChemicalName},
		NamedCell{"eyes", f.Eyes},
		NamedCell{"skin", f.Skin},
		NamedCell{"if_ingested", f.IfIngested},
		NamedCell{"if_inhaled", f.IfInhaled},
	)
}

// Storage covers safe storage: hazard group, the storage checklist and
// free-text storage requirements.
type Storage struct {
	ChemicalName *FieldCell `json:"chemical_name,omitempty" yaml:"chemical_name,omitempty"`
	HazardGroup  *FieldCell `json:"hazard_group,omitempty" yaml:"hazard_group,omitempty"`

	FlammablesCupboard *FieldCell `json:"flammables_cupboard,omitempty" yaml:"flammables_cupboard,omitempty"`
	CorrosivesCupboard *FieldCell `json:"corrosives_cupboard,omitempty" yaml:"corrosives_cupboard,omitempty"`
	PoisonsCupboard    *FieldCell `json:"poisons_cupboard,omitempty" yaml:"poisons_cupboard,omitempty"`
	VentilatedStorage  *FieldCell `json:"ventilated_storage,omitempty" yaml:"ventilated_storage,omitempty"`
	GasCylinder        *FieldCell `json:"gas_cylinder,omitempty" yaml:"gas_cylinder,omitempty"`
	ColdStorage        *FieldCell `json:"cold_storage,omitempty" yaml:"cold_storage,omitempty"`
	DessicatedStorage  *FieldCell `json:"dessicated_storage,omitempty" yaml:"dessicated_storage,omitempty"`

	SpecialStorageDescribe *FieldCell `json:"special_storage_describe,omitempty" yaml:"special_storage_describe,omitempty"`
	HazardLabelOnShelf     *FieldCell `json:"hazard_label_and_store_safely_on_shelf,omitempty" yaml:"hazard_label_and_store_safely_on_shelf,omitempty"`
}

// Domain implements Record.
func (s *Storage) Domain() Domain { return DomainStorage }

// Cells implements Record.
func (s *Storage) Cells() []NamedCell {
	return collect(
		NamedCell{KeyChemicalName, s.ChemicalName},
		NamedCell{KeyHazardGroup, s.HazardGroup},
		NamedCell{"flammables_cupboard", s.FlammablesCupboard},
		NamedCell{"corrosives_cupboard", s.CorrosivesCupboard},
		NamedCell{"poisons_cupboard", s.PoisonsCupboard},
		NamedCell{"ventilated_storage", s.VentilatedStorage},
		NamedCell{"gas_cylinder", s.GasCylinder},
		NamedCell{"cold_storage", s.ColdStorage},
		NamedCell{"dessicated_storage", s.DessicatedStorage},
		NamedCell{"special_storage_describe", s.SpecialStorageDescribe},
		NamedCell{"hazard_label_and_store_safely_on_shelf", s.HazardLabelOnShelf},
	)
}

// RecordSet holds the six record groups of one run.
type RecordSet struct {
	Hazards         *Hazards         `json:"hazards"`
	WasteDisposal   *WasteDisposal   `json:"waste_disposal_measures"`
	SpillManagement *SpillManagement `json:"spill_management"`
	FireProcedures  *FireProcedures  `json:"fire_procedures"`
	FirstAid        *FirstAid        `json:"first_aid_procedures"`
	Storage         *Storage         `json:"storage"`
}

// NewRecord returns an empty record for the domain.
func NewRecord(d Domain) (Record, error) {
	switch d {
	case DomainHazards:
		return &Hazards{}, nil
	case DomainWasteDisposal:
		return &WasteDisposal{}, nil
	case DomainSpillManagement:
		return &SpillManagement{}, nil
	case DomainFireProcedures:
		return &FireProcedures{}, nil
	case DomainFirstAid:
		return &FirstAid{}, nil
	case DomainStorage:
		return &Storage{}, nil
	default:
		return nil, eris.Errorf("model: unknown domain %q", d)
	}
}

// Put stores r in the slot for its domain.
func (s *RecordSet) Put(r Record) error {
	switch v := r.(type) {
	case *Hazards:
		s.Hazards = v
	case *WasteDisposal:
		s.WasteDisposal = v
	case *SpillManagement:
		s.SpillManagement = v
	case *FireProcedures:
		s.FireProcedures = v
	case *FirstAid:
		s.FirstAid = v
	case *Storage:
		s.Storage = v
	default:
		return eris.Errorf("model: unsupported record type %T", r)
	}
	return nil
}

// Groups returns the non-nil records in projection order.
func (s *RecordSet) Groups() []Record {
	var out []Record
	for _, d := range AllDomains() {
		if r := s.Get(d); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the record for the domain, or nil when it is not loaded.
func (s *RecordSet) Get(d Domain) Record {
	switch d {
	case DomainHazards:
		if s.Hazards != nil {
			return s.Hazards
		}
	case DomainWasteDisposal:
		if s.WasteDisposal != nil {
			return s.WasteDisposal
		}
	case DomainSpillManagement:
		if s.SpillManagement != nil {
			return s.SpillManagement
		}
	case DomainFireProcedures:
		if s.FireProcedures != nil {
			return s.FireProcedures
		}
	case DomainFirstAid:
		if s.FirstAid != nil {
			return s.FirstAid
		}
	case DomainStorage:
		if s.Storage != nil {
			return s.Storage
		}
	}
	return nil
}

// Missing returns the domains without a loaded record.
func (s *RecordSet) Missing() []Domain {
	var out []Domain
	for _, d := range AllDomains() {
		if s.Get(d) == nil {
			out = append(out, d)
		}
	}
	return out
}
