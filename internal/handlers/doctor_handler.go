package handlers

import (
	"fmt"
	"strings"

	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *Handler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := h.directory.ListDoctors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(doctors)
}

// CreateDoctor accepts either a JSON document or a multipart form with an
// optional "image" file.
func (h *Handler) CreateDoctor(c *fiber.Ctx) error {
	contentType := string(c.Request().Header.ContentType())
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		var doctor models.Doctor
		if err := parseBody(c, &doctor); err != nil {
			return err
		}
		res, err := h.directory.CreateDoctor(c.UserContext(), doctor, nil)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fmt.Errorf("%w: invalid multipart form: %v", services.ErrInvalidInput, err)
	}
	doctor := doctorFromForm(form.Value)

	var upload *services.ImageUpload
	if files := form.File["image"]; len(files) > 0 {
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open uploaded image: %w", err)
		}
		defer f.Close()

		upload = &services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	}

	res, err := h.directory.CreateDoctor(c.UserContext(), doctor, upload)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// doctorFromForm maps the known form fields onto Doctor and keeps the rest
// as free-form fields. The image URL and storage key are never taken from
// the client.
func doctorFromForm(values map[string][]string) models.Doctor {
	var d models.Doctor
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		switch key {
		case "name":
			d.Name = v
		case "email":
			d.Email = v
		case "specialty":
			d.Specialty = v
		default:
			if models.IsDoctorField(key) {
				continue
			}
			if d.Extra == nil {
				d.Extra = bson.M{}
			}
			d.Extra[key] = v
		}
	}
	return d
}

func (h *Handler) DeleteDoctor(c *fiber.Ctx) error {
	res, err := h.directory.DeleteDoctor(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
