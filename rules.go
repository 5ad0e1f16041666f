package tramit

import "strings"

// Field names a harvested section of DocumentInfo.
type Field string

// Section fields filled by keyword harvesting.
const (
	FieldRequirements Field = "requirements"
	FieldProcedures   Field = "procedures"
)

// SectionRule binds a keyword set to the field it fills.
type SectionRule struct {
	Field    Field    `json:"field" yaml:"field"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Rules is the extraction configuration. Pattern lists are CSS selectors
// tried in the order given; keywords are case-insensitive regular expressions.
type Rules struct {
	Title          []string      `json:"title" yaml:"title"`
	Description    []string      `json:"description" yaml:"description"`
	Sections       []SectionRule `json:"sections" yaml:"sections"`
	AdditionalInfo []string      `json:"additional_info" yaml:"additional_info"`
}

// DefaultRules returns the rules tuned for the Tarragona electronic office.
func DefaultRules() Rules {
	return Rules{
		Title: []string{
			"h1",
			"h2.titulo",
			".titulo-tramite",
			".page-title",
			`[class*="titulo"]`,
			`[class*="title"]`,
		},
		Description: []string{
			".descripcion",
			".description",
			".resumen",
			".summary",
			`[class*="descripcion"]`,
			`[class*="description"]`,
			"p.intro",
			".contenido-principal p",
		},
		Sections: []SectionRule{
			{
				Field:    FieldRequirements,
				Keywords: []string{"requisitos", "requirements", "documentos", "documents", "necesario", "requerido"},
			},
			{
				Field:    FieldProcedures,
				Keywords: []string{"procedimiento", "procedure", "tramite", "proceso", "pasos", "steps", "como"},
			},
		},
		AdditionalInfo: []string{
			".info-adicional",
			".additional-info",
			".notas",
			".notes",
			".importante",
			".important",
			".observaciones",
		},
	}
}

// Validate returns an error if a section rule is unusable.
// Selector and keyword syntax is checked later, per field, by the extractor.
func (r *Rules) Validate() error {
	for i, s := range r.Sections {
		switch s.Field {
		case FieldRequirements, FieldProcedures:
		default:
			return Errorf(EINVALID, "section %d: unknown field %q", i, s.Field)
		}
		if len(s.Keywords) == 0 {
			return Errorf(EINVALID, "section %d (%s): keywords required", i, s.Field)
		}
		for _, kw := range s.Keywords {
			if strings.TrimSpace(kw) == "" {
				return Errorf(EINVALID, "section %d (%s): empty keyword", i, s.Field)
			}
		}
	}
	return nil
}
