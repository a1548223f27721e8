package services

import (
	"fmt"
	"net/url"
	"strings"

	"ComandaApp/app/config"
	"ComandaApp/app/grouping"
	"ComandaApp/app/models"
	"ComandaApp/app/pricing"

	"github.com/skip2/go-qrcode"
)

// WhatsAppService builds shareable order messages and wa.me deep links.
// The restaurant takes most delivery orders over WhatsApp, so the grouped
// summary text is the actual order document the kitchen works from.
type WhatsAppService struct {
	businessNumber string // international format, no "+"
}

// NewWhatsAppService creates a new WhatsApp service
func NewWhatsAppService(cfg *config.AppConfig) *WhatsAppService {
	number := ""
	if cfg != nil {
		number = cfg.Business.WhatsAppNumber
	}
	return &WhatsAppService{businessNumber: number}
}

// BuildOrderMessage groups a cart and renders the order text
func (s *WhatsAppService) BuildOrderMessage(items []models.LineItem, ctx pricing.Context) (string, error) {
	groups, err := grouping.GroupLineItems(items)
	if err != nil {
		return "", fmt.Errorf("could not group order items: %w", err)
	}

	summary := grouping.RenderGroupSummary(groups, ctx)
	return grouping.BuildMessage(summary), nil
}

// DeepLink builds a wa.me link that opens a chat with the restaurant and
// the order text prefilled
func (s *WhatsAppService) DeepLink(message string) (string, error) {
	number := sanitizeNumber(s.businessNumber)
	if number == "" {
		return "", fmt.Errorf("business WhatsApp number not configured")
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message)), nil
}

// OrderDeepLink is the one-call path: cart in, shareable link out
func (s *WhatsAppService) OrderDeepLink(items []models.LineItem, ctx pricing.Context) (string, error) {
	message, err := s.BuildOrderMessage(items, ctx)
	if err != nil {
		return "", err
	}
	return s.DeepLink(message)
}

// DeepLinkQR renders the deep link as a QR code PNG, for the counter
// display where customers scan to confirm their order
func (s *WhatsAppService) DeepLinkQR(message string, size int) ([]byte, error) {
	link, err := s.DeepLink(message)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("could not generate QR code: %w", err)
	}
	return png, nil
}

// sanitizeNumber strips formatting characters so the number fits the
// wa.me path segment
func sanitizeNumber(number string) string {
	var sb strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
