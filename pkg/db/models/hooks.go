package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ID generation lives in hooks instead of database defaults so the same
// models work on both the postgres and sqlite dialects.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (i *Inventory) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (t *InventoryTransaction) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (h *ReservationHold) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

func (s *Store) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (g *OptionGroup) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

func (o *Option) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

func (p *OptionPrice) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
