package reporting

import (
	"fmt"
	"strings"
)

// FanOut selects how records map to output documents.
type FanOut string

const (
	// FanOutBatch writes every record into one document.
	FanOutBatch FanOut = "batch"
	// FanOutPerRecord writes one document per record.
	FanOutPerRecord FanOut = "per-record"
)

// FrontMatter is the copy printed on the cover and about pages.
type FrontMatter struct {
	CoverTitle      string   `yaml:"cover_title"`
	Company         string   `yaml:"company"`
	AboutTitle      string   `yaml:"about_title"`
	AboutParagraphs []string `yaml:"about_paragraphs"`
	Services        []string `yaml:"services"`
	ServicesAfter   int      `yaml:"services_after"` // paragraph index followed by the services list
	Disclaimer      string   `yaml:"disclaimer"`
}

// Contact is the closing paragraph printed after the last candidate.
type Contact struct {
	Lead  string `yaml:"lead"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// Profile parameterises the single report pipeline.
type Profile struct {
	Name            string      `yaml:"name"`
	Front           FrontMatter `yaml:"front"`
	Schema          []string    `yaml:"schema"`
	FanOut          FanOut      `yaml:"fan_out"`
	InfoHeading     string      `yaml:"info_heading"`
	ResultsHeading  string      `yaml:"results_heading"`
	Analysis        bool        `yaml:"analysis"`
	AnalysisHeading string      `yaml:"analysis_heading"`
	AnalysisColumn  string      `yaml:"analysis_column"`
	Contact         Contact     `yaml:"contact"`
	Notice          string      `yaml:"notice"`
}

// Built-in profile names.
const (
	ProfileConsolidated = "consolidated"
	ProfileIndividual   = "individual"
)

var aboutParagraphs = []string{
	"Desde 1999, a Agence Consultoria é uma multinacional boutique especializada em soluções tecnológicas sob medida. " +
		"Com presença no Brasil, Chile, Colômbia e EUA, tornamo-nos referência no cenário latino-americano de tecnologia e inovação.",
	"Atuamos como parceiro estratégico de empresas que buscam eficiência e transformação digital em seus processos. " +
		"Nossas áreas de atuação abrangem:",
	"A excelência dos nossos serviços está alicerçada em uma equipe multidisciplinar, experiente e comprometida com o sucesso dos clientes. " +
		"Cada projeto recebe atendimento individualizado, com foco na ética, transparência e absoluta confidencialidade.",
	"Ao longo de mais de duas décadas, consolidamos nossa reputação de confiança, inovação e entrega de valor. " +
		"Mantenha sua empresa à frente — conte com a Agence para desafios de tecnologia e segurança da informação.",
}

var services = []string{
	"Consultoria estratégica de TI",
	"Desenvolvimento de software personalizado",
	"Automação inteligente de processos (RPA)",
	"Headhunting especializado em tecnologia",
}

const disclaimer = "AVISO DE CONFIDENCIALIDADE: Este documento contém informações confidenciais e privilegiadas. " +
	"Qualquer divulgação, distribuição ou cópia para pessoas não autorizadas é proibida. As informações " +
	"contidas neste relatório destinam-se exclusivamente à empresa cliente, em conformidade com a legislação aplicável."

func defaultFront(title string) FrontMatter {
	return FrontMatter{
		CoverTitle:      title,
		Company:         "Agence Consultoria",
		AboutTitle:      "Agence Consultoria",
		AboutParagraphs: append([]string(nil), aboutParagraphs...),
		Services:        append([]string(nil), services...),
		ServicesAfter:   1,
		Disclaimer:      disclaimer,
	}
}

func defaultContact() Contact {
	return Contact{
		Lead:  "Para esclarecimentos adicionais, entre em contato com nossa equipe técnica pelo",
		Email: "ismael.batista@sp.agence.com.br",
		Phone: "(11) 5286-3220",
	}
}

// Consolidated is the batch report: every candidate in one document.
func Consolidated() Profile {
	return Profile{
		Name:           ProfileConsolidated,
		Front:          defaultFront("Relatório de Verificação de Antecedentes Criminais"),
		Schema:         []string{ColumnAgency, ColumnResult, ColumnStatus, ColumnDate},
		FanOut:         FanOutBatch,
		InfoHeading:    "Dados do profissional",
		ResultsHeading: "Resultados da verificação",
		Contact:        defaultContact(),
		Notice:         "CONFIDENCIAL - USO EXCLUSIVO DA EMPRESA CLIENTE",
	}
}

// Individual writes one document per candidate with an occurrence analysis.
func Individual() Profile {
	return Profile{
		Name:            ProfileIndividual,
		Front:           defaultFront("Relatório Individual de Verificação de Antecedentes"),
		Schema:          []string{ColumnOccurrence, ColumnType, ColumnStatus, ColumnEventDate},
		FanOut:          FanOutPerRecord,
		InfoHeading:     "Dados do profissional",
		ResultsHeading:  "Ocorrências encontradas",
		Analysis:        true,
		AnalysisHeading: "Análise dos resultados",
		AnalysisColumn:  ColumnType,
		Contact:         defaultContact(),
		Notice:          "CONFIDENCIAL - USO EXCLUSIVO DA EMPRESA CLIENTE",
	}
}

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileConsolidated:
		return Consolidated(), nil
	case ProfileIndividual:
		return Individual(), nil
	default:
		return Profile{}, fmt.Errorf("unknown report profile %q", name)
	}
}

// Validate checks that the profile can drive a generation.
func (p Profile) Validate() error {
	var problems []string
	if len(p.Schema) == 0 {
		problems = append(problems, "schema must list at least one column")
	}
	seen := make(map[string]bool, len(p.Schema))
	for _, col := range p.Schema {
		if strings.TrimSpace(col) == "" {
			problems = append(problems, "schema contains an empty column name")
			continue
		}
		if seen[col] {
			problems = append(problems, fmt.Sprintf("schema repeats column %q", col))
		}
		seen[col] = true
	}
	switch p.FanOut {
	case FanOutBatch, FanOutPerRecord:
	default:
		problems = append(problems, fmt.Sprintf("fan_out must be %q or %q", FanOutBatch, FanOutPerRecord))
	}
	if p.Front.ServicesAfter < 0 {
		problems = append(problems, "services_after must not be negative")
	}
	if p.Analysis && p.AnalysisColumn == "" {
		problems = append(problems, "analysis_column is required when analysis is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid profile %q: %s", p.Name, strings.Join(problems, "; "))
	}
	return nil
}
