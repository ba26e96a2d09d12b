package qrcode

import (
	"encoding/json"
	"net/url"
	"strings"

	"eatery/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	qrTypeRestaurant    = "restaurant"
	restaurantPathToken = "/restaurants/"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// QRCodeData represents the QR code payload used when no public base URL is configured
type QRCodeData struct {
	RestaurantID string `json:"restaurant_id"`
	Type         string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance.
// With a baseURL the code encodes the public restaurant page link, otherwise a JSON payload.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// Content returns the text encoded into the QR code of a restaurant
func (s *qrcodeService) Content(restaurantID uuid.UUID) (string, error) {
	if s.baseURL != "" {
		return s.baseURL + restaurantPathToken + restaurantID.String(), nil
	}

	jsonData, err := json.Marshal(QRCodeData{
		RestaurantID: restaurantID.String(),
		Type:         qrTypeRestaurant,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code data")
	}

	return string(jsonData), nil
}

// GenerateRestaurantQR generates a PNG QR code for a restaurant
func (s *qrcodeService) GenerateRestaurantQR(restaurantID uuid.UUID) ([]byte, error) {
	content, err := s.Content(restaurantID)
	if err != nil {
		return nil, err
	}

	// Generate QR code
	qrCode, err := qrcode.New(content, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	// Generate PNG image
	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseRestaurantQR parses decoded QR content, either a restaurant link or a JSON payload
func (s *qrcodeService) ParseRestaurantQR(qrData string) (uuid.UUID, error) {
	qrData = strings.TrimSpace(qrData)
	if strings.HasPrefix(qrData, "{") {
		return parseRestaurantPayload(qrData)
	}

	return parseRestaurantLink(qrData)
}

func parseRestaurantPayload(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	// Validate type
	if data.Type != qrTypeRestaurant {
		return uuid.Nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}

	restaurantID, err := uuid.Parse(data.RestaurantID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse restaurant ID")
	}

	return restaurantID, nil
}

func parseRestaurantLink(qrData string) (uuid.UUID, error) {
	link, err := url.Parse(qrData)
	if err != nil || link.Host == "" {
		return uuid.Nil, errors.Errorf("invalid QR code content: %q", qrData)
	}

	_, rest, found := strings.Cut(link.Path, restaurantPathToken)
	if !found {
		return uuid.Nil, errors.Errorf("invalid QR code link: %s", link.Path)
	}

	restaurantID, err := uuid.Parse(strings.Trim(rest, "/"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse restaurant ID")
	}

	return restaurantID, nil
}
