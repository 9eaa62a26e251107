//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates sample raw order exports for testing the
// pipeline against realistic data.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Int generates a random integer in [min, max].
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float in [min, max].
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Bool generates a random boolean with the given probability of true.
func (f *Faker) Bool(probability float64) bool {
	return f.faker.Float64Range(0, 1) < probability
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// Street generates a random street name.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// DateRange generates a random date between start and end, truncated to the
// calendar day.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	d := f.faker.DateRange(start, end)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Choose picks a random element from a slice.
func Choose[T any](f *Faker, items []T) T {
	return items[f.Int(0, len(items)-1)]
}
