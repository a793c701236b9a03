package handlers

import (
	"net/http"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/views"
	"github.com/go-chi/chi/v5"
)

const msgCommentNotFound = "Comment not found"

func (h *Handler) NewComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.comments.Campground(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, back(r, "/campgrounds"), msgCampgroundNotFound)
		return
	}
	h.render(w, r, "comments/new", &views.Page{Title: "New comment", Campground: c})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form commentForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCampgroundNotFound)
		return
	}
	if _, err := h.comments.Create(r.Context(), currentUser(r), id, form.Text); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCampgroundNotFound)
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds/"+id, services.FlashSuccess, "Successfully added comment")
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.comments.Campground(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, back(r, "/campgrounds"), msgCampgroundNotFound)
		return
	}
	comment, err := h.comments.GetForEdit(r.Context(), currentUser(r), id, chi.URLParam(r, "commentID"))
	if err != nil {
		h.fail(w, r, err, "/campgrounds/"+id, msgCommentNotFound)
		return
	}
	h.render(w, r, "comments/edit", &views.Page{Title: "Edit comment", Campground: c, Comment: comment})
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form commentForm
	if err := decodeForm(r, &form); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCommentNotFound)
		return
	}
	if _, err := h.comments.Update(r.Context(), currentUser(r), id, chi.URLParam(r, "commentID"), form.Text); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCommentNotFound)
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds/"+id, services.FlashSuccess, "Comment updated")
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.comments.Delete(r.Context(), currentUser(r), id, chi.URLParam(r, "commentID")); err != nil {
		h.fail(w, r, err, back(r, "/campgrounds/"+id), msgCommentNotFound)
		return
	}
	h.redirectWithFlash(w, r, "/campgrounds/"+id, services.FlashSuccess, "Comment deleted")
}
