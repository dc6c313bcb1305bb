package services

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/culturallm/culturallm-backend/internal/logger"
)

const (
	avatarSize    = 200
	avatarPadding = 20
	avatarCells   = 5
)

// avatarForeground is the brand color used for identicon blocks.
var avatarForeground = color.RGBA{R: 128, G: 36, B: 51, A: 255}

// AvatarService renders deterministic identicons: the same username always
// produces the same PNG, with no stored state.
type AvatarService interface {
	Identicon(username string) ([]byte, error)
}

type avatarService struct {
	log *logger.Logger
}

func NewAvatarService(baseLog *logger.Logger) AvatarService {
	return &avatarService{log: baseLog.With("service", "AvatarService")}
}

// Identicon draws a 5x5 horizontally mirrored block pattern derived from the
// sha1 of the username. Column c of row r mirrors column 4-c, so only the
// left three columns are read from the digest.
func (as *avatarService) Identicon(username string) ([]byte, error) {
	digest := sha1.Sum([]byte(username))
	hexDigest := hex.EncodeToString(digest[:])

	grid := buildAvatarGrid(hexDigest)

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(color.White)
	dc.Clear()

	inner := float64(avatarSize - 2*avatarPadding)
	cell := inner / avatarCells
	dc.SetColor(avatarForeground)
	for row := 0; row < avatarCells; row++ {
		for col := 0; col < avatarCells; col++ {
			if !grid[row][col] {
				continue
			}
			x := float64(avatarPadding) + float64(col)*cell
			y := float64(avatarPadding) + float64(row)*cell
			dc.DrawRectangle(x, y, cell, cell)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildAvatarGrid(hexDigest string) [avatarCells][avatarCells]bool {
	var grid [avatarCells][avatarCells]bool
	half := (avatarCells + 1) / 2
	for row := 0; row < avatarCells; row++ {
		for col := 0; col < half; col++ {
			// One hex nibble decides one cell; even values paint it.
			nibble := hexDigest[(row*half+col)%len(hexDigest)]
			on := hexNibble(nibble)%2 == 0
			grid[row][col] = on
			grid[row][avatarCells-1-col] = on
		}
	}
	return grid
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return 0
	}
}
