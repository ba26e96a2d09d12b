package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateRestaurantQR renders a PNG pointing at the public page of a restaurant
	GenerateRestaurantQR(restaurantID uuid.UUID) ([]byte, error)

	// ParseRestaurantQR extracts the restaurant ID from decoded QR code content
	ParseRestaurantQR(qrData string) (uuid.UUID, error)
}
