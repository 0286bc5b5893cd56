package event

import (
	"context"
	"strings"

	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
)

// Rotating pool for SHOW events so adjacent cards don't all share one
// picture. Picked by event ID, stable across renders.
var showImages = []string{
	"https://images.unsplash.com/photo-1501281668745-f7f57925c3b4?w=800&q=80",
	"https://images.unsplash.com/photo-1470229722913-7c0e2dbbafd3?w=800&q=80",
	"https://images.unsplash.com/photo-1459749411175-04bf5292ceea?w=800&q=80",
	"https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=800&q=80",
	"https://images.unsplash.com/photo-1429962714451-bb934ecdc4ec?w=800&q=80",
}

var categoryImages = map[string]string{
	gateway.CategoriaShow:     showImages[0],
	gateway.CategoriaConcerto: "https://images.unsplash.com/photo-1465847899084-d164df4dedc6?w=800&q=80",
	gateway.CategoriaTeatro:   "https://images.unsplash.com/photo-1503095396549-807759245b35?w=800&q=80",
	gateway.CategoriaPalestra: "https://images.unsplash.com/photo-1475721027785-f74eccf877e2?w=800&q=80",
	gateway.CategoriaWorkshop: "https://images.unsplash.com/photo-1528605105345-5344ea20e269?w=800&q=80",
}

const fallbackImage = "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=800&q=80"

// ResolveImage picks the picture for an event: custom override first,
// then whatever the backend sent, then the category default.
func ResolveImage(ctx context.Context, store prefs.Store, ev gateway.Evento) string {
	if custom, err := store.GetCustomImage(ctx, ev.ID); err == nil && custom != "" {
		return custom
	}

	if ev.ImagemURL != "" {
		return ev.ImagemURL
	}
	if ev.Imagem != "" {
		return ev.Imagem
	}

	categoria := strings.ToUpper(ev.CategoriaEfetiva())
	if categoria == gateway.CategoriaShow && ev.ID != 0 {
		return showImages[int(ev.ID)%len(showImages)]
	}

	if img, ok := categoryImages[categoria]; ok {
		return img
	}
	return fallbackImage
}
