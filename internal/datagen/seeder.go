package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// Curated reference data. The export mirrors real Indian food-delivery
// marketplaces, so states, cities and dishes come from fixed vocabularies
// rather than generic faker output.
var locations = []struct {
	state  string
	cities []string
}{
	{"Karnataka", []string{"Bengaluru", "Mysuru", "Hubli", "Mangaluru"}},
	{"Maharashtra", []string{"Mumbai", "Pune", "Nagpur", "Nashik"}},
	{"Tamil Nadu", []string{"Chennai", "Coimbatore", "Madurai"}},
	{"Delhi", []string{"New Delhi"}},
	{"Telangana", []string{"Hyderabad", "Warangal"}},
	{"West Bengal", []string{"Kolkata", "Howrah"}},
	{"Gujarat", []string{"Ahmedabad", "Surat", "Vadodara"}},
	{"Rajasthan", []string{"Jaipur", "Udaipur"}},
}

var categories = []struct {
	name   string
	dishes []string
}{
	{"Biryani", []string{"Chicken Biryani", "Mutton Biryani", "Veg Biryani", "Hyderabadi Biryani"}},
	{"Pizza", []string{"Margherita", "Farmhouse Pizza", "Peppy Paneer", "Chicken Tikka Pizza"}},
	{"South Indian", []string{"Masala Dosa", "Idli Sambar", "Medu Vada", "Rava Upma"}},
	{"North Indian", []string{"Butter Chicken", "Paneer Butter Masala", "Dal Makhani", "Chole Bhature"}},
	{"Chinese", []string{"Veg Hakka Noodles", "Chilli Chicken", "Fried Rice", "Manchurian"}},
	{"Street Food", []string{"Pani Puri", "Vada Pav", "Pav Bhaji", "Samosa Chaat"}},
	{"Desserts", []string{"Gulab Jamun", "Rasmalai", "Kulfi", "Jalebi"}},
	{"Burgers", []string{"Veg Whopper", "Chicken Burger", "Paneer Burger"}},
}

var restaurantPrefixes = []string{
	"Royal", "Sri", "New", "Hotel", "The", "Shree", "Grand", "Classic",
}

var restaurantSuffixes = []string{
	"Biryani House", "Kitchen", "Foods", "Restaurant", "Dhaba", "Cafe",
	"Eatery", "Tiffins", "Bhavan", "Grill",
}

// SeedOptions configures sample export generation.
type SeedOptions struct {
	// Rows is the number of data rows to emit (excluding the header).
	Rows int

	// Seed fixes the random seed; 0 uses a time-based seed.
	Seed uint64

	// DirtyFraction is the fraction of rows emitted dirty: duplicated,
	// nulled fields, or whitespace noise. Exercises the cleaning pipeline.
	DirtyFraction float64
}

// Seeder writes sample raw order exports.
type Seeder struct {
	faker *Faker
	opts  SeedOptions
}

// NewSeeder creates a Seeder for the given options.
func NewSeeder(opts SeedOptions) *Seeder {
	f := NewFaker()
	if opts.Seed != 0 {
		f = NewFakerWithSeed(opts.Seed)
	}
	return &Seeder{faker: f, opts: opts}
}

// header matches the fixed raw export column order.
var header = []string{
	"State", "City", "OrderDate", "RestaurantName", "Location", "Category",
	"DishName", "Price", "Rating", "RatingCount",
}

// Write emits the sample export to w.
func (s *Seeder) Write(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	var prev []string
	dirty := 0
	for i := 0; i < s.opts.Rows; i++ {
		var row []string

		switch {
		case prev != nil && s.faker.Bool(s.opts.DirtyFraction/2):
			// Exact duplicate of the previous row
			row = append([]string(nil), prev...)
			dirty++
		default:
			row = s.row(start, end)
			if s.faker.Bool(s.opts.DirtyFraction) {
				s.smudge(row)
				dirty++
			}
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		prev = row
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	logging.Info().
		Int("rows", s.opts.Rows).
		Int("dirty_rows", dirty).
		Msg("Wrote sample export")

	return nil
}

// row generates one clean order row.
func (s *Seeder) row(start, end time.Time) []string {
	loc := Choose(s.faker, locations)
	city := Choose(s.faker, loc.cities)
	cat := Choose(s.faker, categories)
	dish := Choose(s.faker, cat.dishes)

	name := Choose(s.faker, restaurantPrefixes) + " " + Choose(s.faker, restaurantSuffixes)
	area := s.faker.Street()

	price := s.faker.Float64(49, 899)
	rating := s.faker.Float64(2.5, 5.0)
	count := s.faker.Int(0, 2000)

	return []string{
		loc.state,
		city,
		s.faker.DateRange(start, end).Format(time.DateOnly),
		name,
		area,
		cat.name,
		dish,
		strconv.FormatFloat(price, 'f', 2, 64),
		strconv.FormatFloat(rating, 'f', 1, 64),
		strconv.Itoa(count),
	}
}

// smudge dirties a clean row in place: a nulled field or whitespace noise,
// the kind of damage real exports show.
func (s *Seeder) smudge(row []string) {
	switch s.faker.Int(0, 3) {
	case 0:
		// Null a text field
		i := s.faker.Int(0, 5)
		if i >= 2 {
			i++ // skip the date column
		}
		row[i] = ""
	case 1:
		// Null the order date
		row[2] = ""
	case 2:
		// Whitespace padding on a text field
		i := s.faker.Int(0, 5)
		if i >= 2 {
			i++
		}
		row[i] = "  " + row[i] + " "
	case 3:
		// Literal NULL token in a measure
		row[s.faker.Int(7, 9)] = "NULL"
	}
}
