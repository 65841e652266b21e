package pages

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pilates-studio/internal/middleware"
	"pilates-studio/internal/models"

	"github.com/a-h/templ"
)

// classImage returns the sized CMS image for a class card
func classImage(class *models.PilatesClass, w, h int) string {
	src := class.Metadata.FeaturedImage.ImgixURL
	if src == "" {
		src = class.Metadata.FeaturedImage.URL
	}
	return thumbnail(src, w, h)
}

func thumbnail(src string, w, h int) string {
	if src == "" {
		return ""
	}
	return src + "?w=" + strconv.Itoa(w) + "&h=" + strconv.Itoa(h) + "&fit=crop&auto=format,compress"
}

func classURL(slug string) templ.SafeURL {
	return templ.URL("/classes/" + slug)
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes) + " min"
}

func classPrice(class *models.PilatesClass) string {
	if class.IsFree() {
		return "Free"
	}
	return models.NewMoney(class.Metadata.Price, models.DefaultCurrency).Display()
}

func classSummary(class *models.PilatesClass) string {
	var parts []string
	for _, p := range []string{formatDuration(class.Metadata.Duration), class.Metadata.DifficultyLevel.Value, class.Metadata.Category.Value} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

// csrfHeaders is the hx-headers value that sends the token with every HTMX request
func csrfHeaders(ctx context.Context) string {
	return `{"X-CSRF-Token": ` + strconv.Quote(middleware.CSRFTokenFromContext(ctx)) + `}`
}

func errorHeading(status int) string {
	if status == http.StatusNotFound {
		return "Page Not Found"
	}
	return http.StatusText(status)
}

func errorMessage(status int, message string) string {
	if message != "" {
		return message
	}
	if status == http.StatusNotFound {
		return "The page you're looking for doesn't exist."
	}
	return "Something went wrong. Please try again."
}
