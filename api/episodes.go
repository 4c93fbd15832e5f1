package api

import (
	"fmt"

	"cine-catalog/catalog"
	"cine-catalog/storage"

	"github.com/gofiber/fiber/v2"
)

// EpisodeHandler serves the episodes nested under /series/:id/episodes.
type EpisodeHandler struct {
	store storage.StorageInterface
}

func NewEpisodeHandler(store storage.StorageInterface) *EpisodeHandler {
	return &EpisodeHandler{store: store}
}

func (h *EpisodeHandler) List(c *fiber.Ctx) error {
	serieID, err := parseID(c, "id", "serie")
	if err != nil {
		return err
	}
	episodes, err := h.store.ListEpisodes(c.UserContext(), serieID)
	if err != nil {
		return err
	}
	return c.JSON(episodes)
}

func (h *EpisodeHandler) Create(c *fiber.Ctx) error {
	serieID, err := parseID(c, "id", "serie")
	if err != nil {
		return err
	}
	var in catalog.EpisodeInput
	if err := decode(c, &in); err != nil {
		return err
	}
	e, err := in.NewEpisode(serieID)
	if err != nil {
		return err
	}
	created, err := h.store.CreateEpisode(c.UserContext(), e)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *EpisodeHandler) Get(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (h *EpisodeHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *EpisodeHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *EpisodeHandler) update(c *fiber.Ctx, full bool) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	var in catalog.EpisodeInput
	if err := decode(c, &in); err != nil {
		return err
	}
	if full {
		if err := in.ValidateFull(); err != nil {
			return err
		}
	}
	updated, err := h.store.UpdateEpisode(c.UserContext(), e.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (h *EpisodeHandler) Delete(c *fiber.Ctx) error {
	e, err := h.lookup(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteEpisode(c.UserContext(), e.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// lookup loads the episode named in the path and checks that it belongs to
// the serie in the path.
func (h *EpisodeHandler) lookup(c *fiber.Ctx) (catalog.Episode, error) {
	serieID, err := parseID(c, "id", "serie")
	if err != nil {
		return catalog.Episode{}, err
	}
	episodeID, err := parseID(c, "episodeId", "episode")
	if err != nil {
		return catalog.Episode{}, err
	}
	e, err := h.store.GetEpisode(c.UserContext(), episodeID)
	if err != nil {
		return catalog.Episode{}, err
	}
	if e.SerieID != serieID {
		return catalog.Episode{}, fmt.Errorf("episode %d of serie %d: %w", episodeID, serieID, catalog.ErrNotFound)
	}
	return e, nil
}
