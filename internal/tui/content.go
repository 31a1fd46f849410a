package tui

import (
	"context"

	"bloomit/internal/catalog"
	id "bloomit/pkg/domain"
)

// Content is where the shell screens get their data: the server in online
// mode, the embedded catalog in offline mode.
type Content interface {
	Home(ctx context.Context) (catalog.Home, error)
	Plants(ctx context.Context, filter catalog.PlantFilter) ([]catalog.Plant, string, error)
	Plant(ctx context.Context, slug string) (*catalog.Plant, error)
	FAQ(ctx context.Context) (string, []catalog.FAQEntry, error)
	About(ctx context.Context) (catalog.About, error)
	Opportunities(ctx context.Context) ([]catalog.Opportunity, error)
	Join(ctx context.Context, opportunityID string) (string, error)
}

// LocalContent serves a Catalog in process. User reports who is signed in.
type LocalContent struct {
	Catalog *catalog.Catalog
	User    func() id.UserID
}

func (l *LocalContent) Home(context.Context) (catalog.Home, error) {
	return l.Catalog.Home(), nil
}

func (l *LocalContent) Plants(_ context.Context, filter catalog.PlantFilter) ([]catalog.Plant, string, error) {
	plants, err := l.Catalog.Plants(filter)
	if err != nil {
		return nil, "", err
	}
	var suggestion string
	if len(plants) == 0 {
		suggestion = l.Catalog.Suggest(filter.Query)
	}
	return plants, suggestion, nil
}

func (l *LocalContent) Plant(_ context.Context, slug string) (*catalog.Plant, error) {
	return l.Catalog.Plant(slug)
}

func (l *LocalContent) FAQ(context.Context) (string, []catalog.FAQEntry, error) {
	return l.Catalog.FAQIntro(), l.Catalog.FAQ(), nil
}

func (l *LocalContent) About(context.Context) (catalog.About, error) {
	return l.Catalog.About(), nil
}

func (l *LocalContent) Opportunities(context.Context) ([]catalog.Opportunity, error) {
	return l.Catalog.Opportunities(), nil
}

func (l *LocalContent) Join(_ context.Context, opportunityID string) (string, error) {
	msg, _, err := l.Catalog.Join(l.User(), opportunityID)
	return msg, err
}
