// Package id provides ID generation helpers for runs and reports.
package id

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

const DefaultLength = 21

const (
	PrefixRun      = "run"
	PrefixReport   = "rep"
	PrefixArtifact = "art"
)

func New(prefix string) string {
	id, err := nanoid.New(DefaultLength)
	if err != nil {
		panic("nanoid generation failed: " + err.Error())
	}
	return prefix + "_" + id
}

func NewRun() string      { return New(PrefixRun) }
func NewReport() string   { return New(PrefixReport) }
func NewArtifact() string { return New(PrefixArtifact) }
