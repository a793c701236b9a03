package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/gorilla/schema"
)

// Uploaded images are held in memory up to this size.
const maxUploadSize = 10 << 20 // 10MB

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type registerForm struct {
	Username  string `schema:"username"`
	Email     string `schema:"email"`
	Password  string `schema:"password"`
	FirstName string `schema:"firstName"`
	LastName  string `schema:"lastName"`
	Avatar    string `schema:"avatar"`
	AdminCode string `schema:"adminCode"`
}

type loginForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

type resetForm struct {
	Password string `schema:"password"`
	Confirm  string `schema:"confirm"`
}

type campgroundForm struct {
	Name        string  `schema:"name"`
	Price       float64 `schema:"price"`
	Description string  `schema:"description"`
	Location    string  `schema:"location"`
}

func (f campgroundForm) input() services.CampgroundInput {
	return services.CampgroundInput{
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Location:    f.Location,
	}
}

type commentForm struct {
	Text string `schema:"text"`
}

// decodeForm parses a urlencoded or multipart body into dst.
func decodeForm(r *http.Request, dst any) error {
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxUploadSize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return &utils.ValidationError{Field: "form", Message: "Invalid form submission"}
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			for field := range multi {
				return &utils.ValidationError{Field: field, Message: "Invalid value for " + field}
			}
		}
		return &utils.ValidationError{Field: "form", Message: "Invalid form submission"}
	}
	return nil
}

// imageUpload returns the "image" file of a multipart form, or nil when no
// file was sent. The caller closes it.
func imageUpload(r *http.Request) (*services.ImageUpload, func(), error) {
	if !isMultipart(r) {
		return nil, func() {}, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, &utils.ValidationError{Field: "image", Message: "Invalid image upload"}
	}
	return &services.ImageUpload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
