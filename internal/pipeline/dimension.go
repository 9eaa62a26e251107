//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"time"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// DateDim is one row of the date dimension. Natural key: Date.
type DateDim struct {
	ID        int
	Date      time.Time
	Year      int
	Month     int
	MonthName string
	Quarter   int
	Day       int
	Week      int // ISO week number

	// DayOfWeek is 0=Sunday..6=Saturday; DayName is the English weekday.
	// Sunday-first ordering is fixed for the day-of-week report.
	DayOfWeek int
	DayName   string
}

// LocationDim is one row of the location dimension. Natural key: (City, State).
type LocationDim struct {
	ID    int
	City  string
	State string
}

// RestaurantDim is one row of the restaurant dimension.
// Natural key: (Name, Location).
type RestaurantDim struct {
	ID       int
	Name     string
	Location string
}

// CategoryDim is one row of the category dimension. Natural key: Name.
type CategoryDim struct {
	ID   int
	Name string
}

// DishDim is one row of the dish dimension. Natural key: Name.
type DishDim struct {
	ID   int
	Name string
}

type locationKey struct {
	city  string
	state string
}

type restaurantKey struct {
	name     string
	location string
}

// Dimensions holds the five dimension sets plus the natural-key lookup maps
// used by the fact builder. Surrogate keys start at 1 and increment by 1 in
// first-seen order over the cleaned set, so they are deterministic for a
// given input file.
type Dimensions struct {
	Dates       []DateDim
	Locations   []LocationDim
	Restaurants []RestaurantDim
	Categories  []CategoryDim
	Dishes      []DishDim

	dateIdx map[time.Time]int
	locIdx  map[locationKey]int
	restIdx map[restaurantKey]int
	catIdx  map[string]int
	dishIdx map[string]int
}

// BuildDimensions extracts the five dimensions from the cleaned set as
// distinct-value projections. Records with a null OrderDate contribute to
// every dimension except the date dimension.
func BuildDimensions(orders []Order) *Dimensions {
	d := &Dimensions{
		dateIdx: make(map[time.Time]int),
		locIdx:  make(map[locationKey]int),
		restIdx: make(map[restaurantKey]int),
		catIdx:  make(map[string]int),
		dishIdx: make(map[string]int),
	}

	for _, o := range orders {
		if o.OrderDate != nil {
			d.addDate(*o.OrderDate)
		}
		d.addLocation(o.City, o.State)
		d.addRestaurant(o.Restaurant, o.Location)
		d.addCategory(o.Category)
		d.addDish(o.Dish)
	}

	logging.Info().
		Int("dates", len(d.Dates)).
		Int("locations", len(d.Locations)).
		Int("restaurants", len(d.Restaurants)).
		Int("categories", len(d.Categories)).
		Int("dishes", len(d.Dishes)).
		Msg("Built dimensions")

	return d
}

func (d *Dimensions) addDate(t time.Time) {
	key := truncateDate(t)
	if _, ok := d.dateIdx[key]; ok {
		return
	}
	_, week := key.ISOWeek()
	d.dateIdx[key] = len(d.Dates)
	d.Dates = append(d.Dates, DateDim{
		ID:        len(d.Dates) + 1,
		Date:      key,
		Year:      key.Year(),
		Month:     int(key.Month()),
		MonthName: key.Month().String(),
		Quarter:   (int(key.Month())-1)/3 + 1,
		Day:       key.Day(),
		Week:      week,
		DayOfWeek: int(key.Weekday()),
		DayName:   key.Weekday().String(),
	})
}

func (d *Dimensions) addLocation(city, state string) {
	key := locationKey{city: city, state: state}
	if _, ok := d.locIdx[key]; ok {
		return
	}
	d.locIdx[key] = len(d.Locations)
	d.Locations = append(d.Locations, LocationDim{
		ID:    len(d.Locations) + 1,
		City:  city,
		State: state,
	})
}

func (d *Dimensions) addRestaurant(name, location string) {
	key := restaurantKey{name: name, location: location}
	if _, ok := d.restIdx[key]; ok {
		return
	}
	d.restIdx[key] = len(d.Restaurants)
	d.Restaurants = append(d.Restaurants, RestaurantDim{
		ID:       len(d.Restaurants) + 1,
		Name:     name,
		Location: location,
	})
}

func (d *Dimensions) addCategory(name string) {
	if _, ok := d.catIdx[name]; ok {
		return
	}
	d.catIdx[name] = len(d.Categories)
	d.Categories = append(d.Categories, CategoryDim{
		ID:   len(d.Categories) + 1,
		Name: name,
	})
}

func (d *Dimensions) addDish(name string) {
	if _, ok := d.dishIdx[name]; ok {
		return
	}
	d.dishIdx[name] = len(d.Dishes)
	d.Dishes = append(d.Dishes, DishDim{
		ID:   len(d.Dishes) + 1,
		Name: name,
	})
}

// DateID resolves a date to its surrogate key by exact natural-key match.
func (d *Dimensions) DateID(t time.Time) (int, bool) {
	idx, ok := d.dateIdx[truncateDate(t)]
	if !ok {
		return 0, false
	}
	return d.Dates[idx].ID, true
}

// LocationID resolves (city, state) to its surrogate key.
func (d *Dimensions) LocationID(city, state string) (int, bool) {
	idx, ok := d.locIdx[locationKey{city: city, state: state}]
	if !ok {
		return 0, false
	}
	return d.Locations[idx].ID, true
}

// RestaurantID resolves (name, location) to its surrogate key.
func (d *Dimensions) RestaurantID(name, location string) (int, bool) {
	idx, ok := d.restIdx[restaurantKey{name: name, location: location}]
	if !ok {
		return 0, false
	}
	return d.Restaurants[idx].ID, true
}

// CategoryID resolves a category name to its surrogate key.
func (d *Dimensions) CategoryID(name string) (int, bool) {
	idx, ok := d.catIdx[name]
	if !ok {
		return 0, false
	}
	return d.Categories[idx].ID, true
}

// DishID resolves a dish name to its surrogate key.
func (d *Dimensions) DishID(name string) (int, bool) {
	idx, ok := d.dishIdx[name]
	if !ok {
		return 0, false
	}
	return d.Dishes[idx].ID, true
}

// truncateDate strips the time-of-day and timezone so dates compare by
// calendar day.
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
