// Package idgenerator contains the default [domain.IDGenerator]
// implementation, producing random UUIDs.
package idgenerator

import (
	"crypto/rand"
	"io"

	"github.com/google/uuid"

	"github.com/finchdb/finch/domain"
)

// IDGenerator implements [domain.IDGenerator].
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator returns a new implementation of [domain.IDGenerator].
func NewIDGenerator(options ...domain.IDGeneratorOption) domain.IDGenerator {
	opts := domain.IDGeneratorOptions{Reader: rand.Reader}
	for _, option := range options {
		option(&opts)
	}
	return &IDGenerator{reader: opts.Reader}
}

// GenerateID implements [domain.IDGenerator].
func (g *IDGenerator) GenerateID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
