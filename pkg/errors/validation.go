package errors

// Bounds accepted by the library entry points. The layer count grows
// roughly as 1.32^width and the pairwise analysis is quadratic in it: width
// 44 has 97,229 layers, width 48 already 299,426.
const (
	MaxWidth  = 44
	MaxHeight = 4096
)

// ValidateWidth checks a wall width.
//
// Widths 0 and 1 are accepted: they cannot be tiled and simply count zero
// walls. Negative widths and widths above [MaxWidth] are rejected.
func ValidateWidth(width int) error {
	if width < 0 {
		return New(ErrCodeInvalidWidth, "width must be non-negative, got %d", width)
	}
	if width > MaxWidth {
		return New(ErrCodeInvalidWidth, "width too large (max %d), got %d", MaxWidth, width)
	}
	return nil
}

// ValidateHeight checks a wall height. A wall has at least one layer.
func ValidateHeight(height int) error {
	if height < 1 {
		return New(ErrCodeInvalidHeight, "height must be at least 1, got %d", height)
	}
	if height > MaxHeight {
		return New(ErrCodeInvalidHeight, "height too large (max %d), got %d", MaxHeight, height)
	}
	return nil
}

// ValidateBounds checks width and height against caller-supplied limits,
// typically the HTTP server's configured maxima. A non-positive limit
// disables that check.
func ValidateBounds(width, height, maxWidth, maxHeight int) error {
	if err := ValidateWidth(width); err != nil {
		return err
	}
	if err := ValidateHeight(height); err != nil {
		return err
	}
	if maxWidth > 0 && width > maxWidth {
		return New(ErrCodeInvalidWidth, "width %d exceeds limit %d", width, maxWidth)
	}
	if maxHeight > 0 && height > maxHeight {
		return New(ErrCodeInvalidHeight, "height %d exceeds limit %d", height, maxHeight)
	}
	return nil
}
