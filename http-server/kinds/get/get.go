package get

import (
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

type KindLister interface {
	KindNames() []string
	VariantNames() []string
}

type Response struct {
	Kinds    []string `json:"kinds"`
	Variants []string `json:"variants"`
	Timezone string   `json:"timezone"`
}

// GetKinds список видов отчётов для фронтенда
func GetKinds(log *slog.Logger, lister KindLister, timezone string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.kinds.GetKinds"

		response := Response{
			Kinds:    lister.KindNames(),
			Variants: lister.VariantNames(),
			Timezone: timezone,
		}

		log.With(slog.String("op", op)).Debug("kinds listed", slog.Int("kinds", len(response.Kinds)))

		render.JSON(w, r, response)
	}
}
