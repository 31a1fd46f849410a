// Package catalog serves the app's static content: the plant library, FAQ,
// About Us, volunteering opportunities and the home screen.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"bloomit/internal/identity/models"
	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
	"bloomit/pkg/email"
)

//go:embed content.yaml
var builtinContent []byte

// JoinConfirmation is shown after signing up for an opportunity.
const JoinConfirmation = "You have joined successfully!"

type Catalog struct {
	content content

	mu      sync.RWMutex
	signups map[string]map[id.UserID]struct{}
}

// New loads the embedded content.
func New() (*Catalog, error) {
	return Parse(builtinContent)
}

// MustNew panics if the embedded content is broken.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(raw []byte) (*Catalog, error) {
	var c content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.About.MapsURL = c.About.Location.MapsURL()
	return &Catalog{content: c, signups: make(map[string]map[id.UserID]struct{})}, nil
}

func (c *content) validate() error {
	slugs := make(map[string]struct{}, len(c.Plants))
	for _, p := range c.Plants {
		if p.Slug == "" || p.Name == "" {
			return fmt.Errorf("plant %q: slug and name are required", p.Name)
		}
		if p.Category != CategoryIndoor && p.Category != CategoryOutdoor {
			return fmt.Errorf("plant %q: unknown category %q", p.Slug, p.Category)
		}
		if _, dup := slugs[p.Slug]; dup {
			return fmt.Errorf("plant %q: duplicate slug", p.Slug)
		}
		slugs[p.Slug] = struct{}{}
	}
	ids := make(map[string]struct{}, len(c.Volunteering))
	for _, o := range c.Volunteering {
		if _, dup := ids[o.ID]; dup || o.ID == "" {
			return fmt.Errorf("opportunity %q: missing or duplicate id", o.Title)
		}
		ids[o.ID] = struct{}{}
	}
	return nil
}

// ParseCategory accepts all, indoor and outdoor in any case. Empty means all.
func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryIndoor:
		return CategoryIndoor, nil
	case CategoryOutdoor:
		return CategoryOutdoor, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "category must be all, indoor or outdoor")
	}
}

// Plants returns library entries matching both the category and a
// case-insensitive substring of the name, in library order.
func (c *Catalog) Plants(filter PlantFilter) ([]Plant, error) {
	category, err := ParseCategory(string(filter.Category))
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(filter.Query)

	out := make([]Plant, 0, len(c.content.Plants))
	for _, p := range c.content.Plants {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Suggest returns the plant name closest to query by edit distance. It
// returns "" when query already matches a name or nothing is close enough.
func (c *Catalog) Suggest(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	best, bestDist := "", max(2, utf8.RuneCountInString(q)/3)+1
	for _, p := range c.content.Plants {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, q) {
			return ""
		}
		if d := levenshtein.ComputeDistance(q, name); d < bestDist {
			best, bestDist = p.Name, d
		}
	}
	return best
}

func (c *Catalog) Plant(slug string) (*Plant, error) {
	for _, p := range c.content.Plants {
		if p.Slug == slug {
			plant := p
			plant.Tips = slices.Clone(p.Tips)
			return &plant, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "plant not found")
}

func (c *Catalog) FAQIntro() string { return c.content.FAQIntro }

func (c *Catalog) FAQ() []FAQEntry {
	return slices.Clone(c.content.FAQ)
}

func (c *Catalog) About() About {
	about := c.content.About
	about.Sections = slices.Clone(about.Sections)
	return about
}

func (c *Catalog) Home() Home {
	home := c.content.Home
	home.Services = slices.Clone(home.Services)
	home.News = slices.Clone(home.News)
	return home
}

func (c *Catalog) Services() []Service {
	return slices.Clone(c.content.Home.Services)
}

// Greeting is the home screen heading for identity.
func Greeting(identity *models.Identity) string {
	if identity == nil {
		return "Welcome User"
	}
	return "Welcome " + email.DisplayName(identity.DisplayName, identity.Email)
}

func (c *Catalog) Opportunities() []Opportunity {
	return slices.Clone(c.content.Volunteering)
}

func (c *Catalog) Opportunity(opportunityID string) (*Opportunity, error) {
	for _, o := range c.content.Volunteering {
		if o.ID == opportunityID {
			opportunity := o
			return &opportunity, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "volunteering opportunity not found")
}

// Join signs userID up for an opportunity. Joining twice is not an error;
// the bool reports whether this call added the sign-up.
func (c *Catalog) Join(userID id.UserID, opportunityID string) (string, bool, error) {
	if userID.IsNil() {
		return "", false, dErrors.New(dErrors.CodeUnauthorized, "sign in to join")
	}
	if _, err := c.Opportunity(opportunityID); err != nil {
		return "", false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	members, ok := c.signups[opportunityID]
	if !ok {
		members = make(map[id.UserID]struct{})
		c.signups[opportunityID] = members
	}
	_, already := members[userID]
	members[userID] = struct{}{}
	return JoinConfirmation, !already, nil
}

// Joined reports whether userID has signed up for the opportunity.
func (c *Catalog) Joined(userID id.UserID, opportunityID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.signups[opportunityID][userID]
	return ok
}
