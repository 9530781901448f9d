package gui

import (
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faces struct {
	piece font.Face
	ui    font.Face
	small font.Face
}

func loadFaces() (*faces, error) {
	tt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing font")
	}
	face := func(size float64) (font.Face, error) {
		return opentype.NewFace(tt, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	var f faces
	if f.piece, err = face(40); err != nil {
		return nil, errors.Wrap(err, "piece face")
	}
	if f.ui, err = face(18); err != nil {
		return nil, errors.Wrap(err, "ui face")
	}
	if f.small, err = face(13); err != nil {
		return nil, errors.Wrap(err, "small face")
	}
	return &f, nil
}
