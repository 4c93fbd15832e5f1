package api

import (
	"cine-catalog/catalog"
	"cine-catalog/storage"

	"github.com/gofiber/fiber/v2"
)

type MovieHandler struct {
	store storage.StorageInterface
}

func NewMovieHandler(store storage.StorageInterface) *MovieHandler {
	return &MovieHandler{store: store}
}

// List handles GET /movies?search=&genre=. At most catalog.ListLimit movies
// are returned.
func (h *MovieHandler) List(c *fiber.Ctx) error {
	f := catalog.NewFilter(c.Query("search"), c.Query("genre"))
	movies, err := h.store.ListMovies(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(movies)
}

func (h *MovieHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "movie")
	if err != nil {
		return err
	}
	m, err := h.store.GetMovie(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (h *MovieHandler) Create(c *fiber.Ctx) error {
	var in catalog.MovieInput
	if err := decode(c, &in); err != nil {
		return err
	}
	m, err := in.NewMovie()
	if err != nil {
		return err
	}
	created, err := h.store.CreateMovie(c.UserContext(), m)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Replace handles PUT, which requires every mandatory field.
func (h *MovieHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Update handles PATCH. Absent fields keep their stored values.
func (h *MovieHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *MovieHandler) update(c *fiber.Ctx, full bool) error {
	id, err := parseID(c, "id", "movie")
	if err != nil {
		return err
	}
	// A missing record is reported before any payload problem.
	if _, err := h.store.GetMovie(c.UserContext(), id); err != nil {
		return err
	}
	var in catalog.MovieInput
	if err := decode(c, &in); err != nil {
		return err
	}
	if full {
		if err := in.ValidateFull(); err != nil {
			return err
		}
	}
	m, err := h.store.UpdateMovie(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (h *MovieHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "movie")
	if err != nil {
		return err
	}
	if err := h.store.DeleteMovie(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
