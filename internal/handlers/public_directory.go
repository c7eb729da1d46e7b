package handlers

import (
	"net/http"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
)

// directoryPage describes one of the read-only directory listings.
type directoryPage struct {
	template string
	title    string
	path     string
	param    string
	choices  []string
	list     func(category string, limit, offset int) (any, int, error)
}

// listOf adapts a typed directory lister to directoryPage.list.
func listOf[T any](fn func(string, int, int) ([]T, int, error)) func(string, int, int) (any, int, error) {
	return func(category string, limit, offset int) (any, int, error) {
		return fn(category, limit, offset)
	}
}

func (p *Public) directory(w http.ResponseWriter, r *http.Request, d directoryPage) {
	category := choice(r, d.param, d.choices)
	pg := models.NewPagination(pageNumber(r), directoryPerPage, 0)
	items, total, err := d.list(category, pg.PerPage, pg.Offset())
	if err != nil {
		serverError(w, "list "+d.template+" failed", err)
		return
	}
	pg.Total = total

	p.renderer.Public(w, r, d.template, &render.PageData{
		Title:   d.title,
		Section: d.template,
		Data: map[string]any{
			"Items": items,
			"Tabs":  tabs{Path: d.path, Param: d.param, Current: category, Choices: d.choices},
			"Pager": newPager(r, pg),
		},
	})
}

// Achievements renders the achievements directory.
func (p *Public) Achievements(w http.ResponseWriter, r *http.Request) {
	p.directory(w, r, directoryPage{
		template: "achievements", title: "Achievements", path: "/achievements",
		param: "category", choices: models.AchievementCategories,
		list: listOf(p.stores.Directory.Achievements),
	})
}

// Facilities renders the campus facilities directory.
func (p *Public) Facilities(w http.ResponseWriter, r *http.Request) {
	p.directory(w, r, directoryPage{
		template: "facilities", title: "Facilities", path: "/facilities",
		param: "category", choices: models.FacilityCategories,
		list: listOf(p.stores.Directory.Facilities),
	})
}

// Organizations renders the student organizations directory.
func (p *Public) Organizations(w http.ResponseWriter, r *http.Request) {
	p.directory(w, r, directoryPage{
		template: "organizations", title: "Student Organizations", path: "/organizations",
		param: "category", choices: models.OrganizationCategories,
		list: listOf(p.stores.Directory.Organizations),
	})
}

// Programs renders the academic programs directory, filtered by level.
func (p *Public) Programs(w http.ResponseWriter, r *http.Request) {
	p.directory(w, r, directoryPage{
		template: "programs", title: "Academic Programs", path: "/programs",
		param: "level", choices: models.ProgramLevels,
		list: listOf(p.stores.Directory.Programs),
	})
}

// Administration renders the school leadership directory, filtered by
// department.
func (p *Public) Administration(w http.ResponseWriter, r *http.Request) {
	p.directory(w, r, directoryPage{
		template: "administration", title: "Administration", path: "/administration",
		param: "department", choices: models.Departments,
		list: listOf(p.stores.Directory.Administration),
	})
}
