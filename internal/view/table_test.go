package view_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/view"
)

var _ = Describe("Table", func() {
	var cfg view.TableConfig[models.Organization]

	BeforeEach(func() {
		cfg = view.TableConfig[models.Organization]{
			Title: "Organizations",
			Columns: []view.Column[models.Organization]{
				{Key: "name", Label: "Name"},
				{Key: "city", Label: "City", Render: func(o models.Organization) string { return strings.ToUpper(o.City) }},
			},
			BasePath:   "/organizations",
			CreateHref: "/organizations/create",
			RowHref:    func(o models.Organization) string { return view.DetailHref("/organizations", o.ID) },
		}
	})

	It("renders rows in input order with custom and default cells", func() {
		items := []models.Organization{{ID: 7, Name: "Acme", City: "Paris"}, {ID: 3, Name: "Globex", City: "Oslo"}}
		t := view.NewTable(cfg, items, view.TableState{})

		Expect(t.Mode).To(Equal(view.TableRows))
		Expect(t.Headers).To(Equal([]string{"Name", "City"}))
		Expect(t.Rows).To(HaveLen(2))
		Expect(t.Rows[0]).To(Equal(view.Row{ID: 7, Href: "/organizations/7", Cells: []string{"Acme", "PARIS"}}))
		Expect(t.Rows[1].Cells).To(Equal([]string{"Globex", "OSLO"}))
	})

	It("shows the no-data message for an empty list", func() {
		t := view.NewTable(cfg, nil, view.TableState{})
		Expect(t.Mode).To(Equal(view.TableEmpty))
		Expect(t.EmptyMessage).To(Equal("No data available."))
	})

	It("shows the no-results message for an empty search", func() {
		t := view.NewTable(cfg, nil, view.TableState{Search: "zzz"})
		Expect(t.EmptyMessage).To(Equal("No results found."))
		Expect(t.Search).To(Equal("zzz"))
		Expect(t.ResetHref).To(Equal("/organizations"))
	})

	It("never filters rows itself", func() {
		items := []models.Organization{{ID: 1, Name: "Acme"}}
		t := view.NewTable(cfg, items, view.TableState{Search: "nothing-matches"})
		Expect(t.Rows).To(HaveLen(1))
	})

	It("puts error before loading and renders no rows", func() {
		items := []models.Organization{{ID: 1, Name: "Acme"}}
		t := view.NewTable(cfg, items, view.TableState{Loading: true, Error: "Failed to fetch organizations"})
		Expect(t.Mode).To(Equal(view.TableError))
		Expect(t.Error).To(Equal("Failed to fetch organizations"))
		Expect(t.Rows).To(BeEmpty())
	})

	It("renders no rows while loading", func() {
		t := view.NewTable(cfg, []models.Organization{{ID: 1}}, view.TableState{Loading: true})
		Expect(t.Mode).To(Equal(view.TableLoading))
		Expect(t.Rows).To(BeEmpty())
	})

	It("defaults the search placeholder", func() {
		t := view.NewTable(cfg, nil, view.TableState{})
		Expect(t.SearchPlaceholder).To(Equal("Search..."))
	})

	It("fails the table when a row cannot be encoded", func() {
		t := view.NewTable(view.TableConfig[unreadable]{
			Columns: []view.Column[unreadable]{{Key: "name", Label: "Name"}},
		}, []unreadable{{ID: 1}}, view.TableState{})
		Expect(t.Mode).To(Equal(view.TableError))
		Expect(t.Error).To(Equal("Something went wrong. Please try again."))
		Expect(t.Rows).To(BeEmpty())
	})
})

type unreadable struct {
	ID int      `json:"id"`
	Ch chan int `json:"ch"`
}

func (u unreadable) GetID() int { return u.ID }
