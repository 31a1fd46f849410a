package catalog

import "fmt"

type Category string

const (
	CategoryAll     Category = "all"
	CategoryIndoor  Category = "indoor"
	CategoryOutdoor Category = "outdoor"
)

type Tip struct {
	Icon  string `yaml:"icon" json:"icon"`
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

// Plant is a library entry. Name is the library card label, Title the
// heading of the detail page.
type Plant struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title" json:"title"`
	Category    Category `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	CareTitle   string   `yaml:"care_title" json:"care_title"`
	Tips        []Tip    `yaml:"tips" json:"tips"`
}

type FAQEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Section struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

type Location struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Latitude    float64 `yaml:"latitude" json:"latitude"`
	Longitude   float64 `yaml:"longitude" json:"longitude"`
}

// MapsURL is the link offered when the map itself cannot be shown.
func (l Location) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", l.Latitude, l.Longitude)
}

type Contact struct {
	Email     string `yaml:"email" json:"email"`
	Instagram string `yaml:"instagram" json:"instagram"`
	Phone     string `yaml:"phone" json:"phone"`
}

type About struct {
	Sections []Section `yaml:"sections" json:"sections"`
	Location Location  `yaml:"location" json:"location"`
	Contact  Contact   `yaml:"contact" json:"contact"`
	MapsURL  string    `yaml:"-" json:"maps_url"`
}

type Opportunity struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Date        string `yaml:"date" json:"date"`
	Location    string `yaml:"location" json:"location"`
	Description string `yaml:"description" json:"description"`
}

type Service struct {
	Label string `yaml:"label" json:"label"`
	Route string `yaml:"route" json:"route"`
}

// Home is the landing screen content minus the per-user greeting.
type Home struct {
	Location string    `yaml:"location" json:"location"`
	Services []Service `yaml:"services" json:"services"`
	News     []string  `yaml:"news" json:"news"`
}

// PlantFilter narrows the library. Zero value lists everything.
type PlantFilter struct {
	Category Category
	Query    string
}

type content struct {
	Home         Home          `yaml:"home"`
	FAQIntro     string        `yaml:"faq_intro"`
	FAQ          []FAQEntry    `yaml:"faq"`
	About        About         `yaml:"about"`
	Volunteering []Opportunity `yaml:"volunteering"`
	Plants       []Plant       `yaml:"plants"`
}
