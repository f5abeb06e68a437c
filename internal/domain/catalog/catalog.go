// Package catalog holds the fixed option lists offered by the presentation wizard.
package catalog

// Template is a selectable slide theme.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Preview     string `json:"preview"`
}

// PresentationType describes the purpose of a deck.
type PresentationType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Desc string `json:"desc"`
}

// Audience describes who the deck is for.
type Audience struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

const (
	DefaultTemplate = "modern-elegant"
	DefaultType     = "business_presentation"
	DefaultAudience = "general_employees"
	DefaultTone     = "professional"
	DefaultDuration = 15
)

var templates = []Template{
	{ID: "modern-elegant", Name: "Modern Elegant", Description: "Gradient backgrounds and modern typography for product launches and creative showcases", Preview: "/previews/modern-elegant.png"},
	{ID: "corporate-blue", Name: "Corporate Blue", Description: "Professional business style for company reports and training", Preview: "/previews/corporate-blue.png"},
	{ID: "minimal-clean", Name: "Minimal Clean", Description: "Minimalist layout for tech talks and academic reports", Preview: "/previews/minimal-clean.png"},
	{ID: "creative-bold", Name: "Creative Bold", Description: "Neon cyberpunk look for creative pitches and young teams", Preview: "/previews/creative-bold.png"},
}

var presentationTypes = []PresentationType{
	{ID: "business_presentation", Name: "Business Presentation", Icon: "💼", Desc: "Reports, reviews and internal updates"},
	{ID: "investor_pitch", Name: "Investor Pitch", Icon: "💰", Desc: "Fundraising decks for investors"},
	{ID: "product_launch", Name: "Product Launch", Icon: "🚀", Desc: "Introduce a new product or feature"},
	{ID: "training_workshop", Name: "Training Workshop", Icon: "🎓", Desc: "Hands-on teaching sessions"},
	{ID: "webinar", Name: "Webinar", Icon: "🖥️", Desc: "Online talks for remote audiences"},
	{ID: "keynote", Name: "Keynote", Icon: "🎤", Desc: "Conference and all-hands keynotes"},
	{ID: "sales_pitch", Name: "Sales Pitch", Icon: "🤝", Desc: "Win over prospective customers"},
}

var audiences = []Audience{
	{ID: "general_employees", Name: "General Employees", Icon: "👥"},
	{ID: "senior_executives", Name: "Senior Executives", Icon: "👔"},
	{ID: "investors", Name: "Investors", Icon: "📈"},
	{ID: "clients", Name: "Clients", Icon: "🤝"},
	{ID: "technical_team", Name: "Technical Team", Icon: "🛠️"},
	{ID: "students", Name: "Students", Icon: "🎒"},
}

var tones = []string{"professional", "casual", "persuasive", "inspirational", "educational"}

// Templates returns a copy of the template list.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// PresentationTypes returns a copy of the presentation type list.
func PresentationTypes() []PresentationType {
	return append([]PresentationType(nil), presentationTypes...)
}

// Audiences returns a copy of the audience list.
func Audiences() []Audience {
	return append([]Audience(nil), audiences...)
}

// Tones returns the accepted tone identifiers.
func Tones() []string {
	return append([]string(nil), tones...)
}

func IsTemplate(id string) bool {
	for _, t := range templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

func IsPresentationType(id string) bool {
	for _, t := range presentationTypes {
		if t.ID == id {
			return true
		}
	}
	return false
}

func IsAudience(id string) bool {
	for _, a := range audiences {
		if a.ID == id {
			return true
		}
	}
	return false
}

func IsTone(id string) bool {
	for _, t := range tones {
		if t == id {
			return true
		}
	}
	return false
}
