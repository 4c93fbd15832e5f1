package api

import (
	"cine-catalog/catalog"
	"cine-catalog/storage"

	"github.com/gofiber/fiber/v2"
)

// SerieHandler serves series. Every representation embeds the serie's
// episodes as episode_list.
type SerieHandler struct {
	store storage.StorageInterface
}

func NewSerieHandler(store storage.StorageInterface) *SerieHandler {
	return &SerieHandler{store: store}
}

func (h *SerieHandler) List(c *fiber.Ctx) error {
	f := catalog.NewFilter(c.Query("search"), c.Query("genre"))
	series, err := h.store.ListSeries(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(series)
}

func (h *SerieHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "serie")
	if err != nil {
		return err
	}
	s, err := h.store.GetSerie(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *SerieHandler) Create(c *fiber.Ctx) error {
	var in catalog.SerieInput
	if err := decode(c, &in); err != nil {
		return err
	}
	s, err := in.NewSerie()
	if err != nil {
		return err
	}
	created, err := h.store.CreateSerie(c.UserContext(), s)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *SerieHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *SerieHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *SerieHandler) update(c *fiber.Ctx, full bool) error {
	id, err := parseID(c, "id", "serie")
	if err != nil {
		return err
	}
	// A missing record is reported before any payload problem.
	if _, err := h.store.GetSerie(c.UserContext(), id); err != nil {
		return err
	}
	var in catalog.SerieInput
	if err := decode(c, &in); err != nil {
		return err
	}
	if full {
		if err := in.ValidateFull(); err != nil {
			return err
		}
	}
	s, err := h.store.UpdateSerie(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// Delete removes the serie together with all of its episodes.
func (h *SerieHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "serie")
	if err != nil {
		return err
	}
	if err := h.store.DeleteSerie(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
