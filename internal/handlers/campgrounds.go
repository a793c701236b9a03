package handlers

import (
	"net/http"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/go-chi/chi/v5"
)

const msgCampgroundNotFound = "Campground not found"

// ListCampgrounds shows every campground, or the ones matching ?search=.
// A search with no matches redirects to the full list with a notice. A store
// failure redirects to the landing page.
func (h *Handler) ListCampgrounds(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")
	campgrounds, err := h.campgrounds.List(r.Context(), term)
	if err != nil {
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Str("search", term).Msg("failed to list campgrounds")
		// The landing page never reads the store
		h.redirectWithFlash(w, r, "/", services.FlashError, msgSomethingWrong)
		return
	}
	if term != "" && len(campgrounds) == 0 {
		h.redirectWithFlash(w, r, "/campgrounds", services.FlashInfo, "No campgrounds found with the name: "+term)
		return
	}
	h.render(w, r, "campgrounds/index", &views.Page{
		Title:       "Campgrounds",
		Active:      "campgrounds",
		Search:      term,
		Campgrounds: campgrounds,
	})
}

func (h *Handler) NewCampground(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "campgrounds/new", &views.Page{Title: "New campground"})
}

func (h *Handler) CreateCampground(w http.ResponseWriter, r *http.Request) {
	fallback := back(r, "/campgrounds/new")

	var form campgroundForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, fallback, "")
		return
	}
	img, closeImg, err := imageUpload(r)
	if err != nil {
		h.fail(w, r, err, fallback, "")
		return
	}
	defer closeImg()

	c, err := h.campgrounds.Create(r.Context(), currentUser(r), form.input(), img)
	if err != nil {
		h.fail(w, r, err, fallback, "")
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds", services.FlashSuccess, "Campground "+c.Name+" created successfully")
}

func (h *Handler) ShowCampground(w http.ResponseWriter, r *http.Request) {
	c, comments, err := h.campgrounds.Show(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, back(r, "/campgrounds"), msgCampgroundNotFound)
		return
	}
	h.render(w, r, "campgrounds/show", &views.Page{Title: c.Name, Campground: c, Comments: comments})
}

func (h *Handler) EditCampground(w http.ResponseWriter, r *http.Request) {
	c, err := h.campgrounds.GetForEdit(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, back(r, "/campgrounds"), msgCampgroundNotFound)
		return
	}
	h.render(w, r, "campgrounds/edit", &views.Page{Title: "Edit " + c.Name, Campground: c})
}

func (h *Handler) UpdateCampground(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fallback := back(r, "/campgrounds/"+id)

	var form campgroundForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, fallback, msgCampgroundNotFound)
		return
	}
	img, closeImg, err := imageUpload(r)
	if err != nil {
		h.fail(w, r, err, fallback, msgCampgroundNotFound)
		return
	}
	defer closeImg()

	if _, err := h.campgrounds.Update(r.Context(), currentUser(r), id, form.input(), img); err != nil {
		h.fail(w, r, err, fallback, msgCampgroundNotFound)
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds/"+id, services.FlashSuccess, "Campground updated successfully")
}

func (h *Handler) DeleteCampground(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.campgrounds.Delete(r.Context(), currentUser(r), id); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCampgroundNotFound)
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds", services.FlashSuccess, "Campground deleted")
}
