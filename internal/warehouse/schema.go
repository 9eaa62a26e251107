//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse owns the PostgreSQL star schema: DDL, bulk loading of
// the pipeline output, and the reporting battery.
package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the order star schema. Staging holds the raw export as
// text; the five dimensions and the fact table hold the transformed model.
const createSchemaSQL = `
-- Staging: raw export rows as ingested, untyped
CREATE TABLE IF NOT EXISTS staging_orders (
    line            INTEGER NOT NULL,
    state           TEXT,
    city            TEXT,
    order_date      TEXT,
    restaurant_name TEXT,
    location        TEXT,
    category        TEXT,
    dish_name       TEXT,
    price           TEXT,
    rating          TEXT,
    rating_count    TEXT,
    row_hash        BIGINT NOT NULL
);

-- Date dimension, natural key: full_date
CREATE TABLE IF NOT EXISTS dim_date (
    date_id     INTEGER PRIMARY KEY,
    full_date   DATE NOT NULL UNIQUE,
    year        INTEGER NOT NULL,
    month       INTEGER NOT NULL,
    month_name  TEXT NOT NULL,
    quarter     INTEGER NOT NULL,
    day         INTEGER NOT NULL,
    week        INTEGER NOT NULL,
    day_of_week INTEGER NOT NULL,
    day_name    TEXT NOT NULL
);

-- Location dimension, natural key: (city, state)
CREATE TABLE IF NOT EXISTS dim_location (
    location_id INTEGER PRIMARY KEY,
    city        TEXT NOT NULL,
    state       TEXT NOT NULL,
    UNIQUE (city, state)
);

-- Restaurant dimension, natural key: (restaurant_name, location)
CREATE TABLE IF NOT EXISTS dim_restaurant (
    restaurant_id   INTEGER PRIMARY KEY,
    restaurant_name TEXT NOT NULL,
    location        TEXT NOT NULL,
    UNIQUE (restaurant_name, location)
);

-- Category dimension, natural key: category_name
CREATE TABLE IF NOT EXISTS dim_category (
    category_id   INTEGER PRIMARY KEY,
    category_name TEXT NOT NULL UNIQUE
);

-- Dish dimension, natural key: dish_name
CREATE TABLE IF NOT EXISTS dim_dish (
    dish_id   INTEGER PRIMARY KEY,
    dish_name TEXT NOT NULL UNIQUE
);

-- Order facts: five resolved surrogate keys plus measures
CREATE TABLE IF NOT EXISTS fact_orders (
    order_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    date_id       INTEGER NOT NULL REFERENCES dim_date(date_id),
    location_id   INTEGER NOT NULL REFERENCES dim_location(location_id),
    restaurant_id INTEGER NOT NULL REFERENCES dim_restaurant(restaurant_id),
    category_id   INTEGER NOT NULL REFERENCES dim_category(category_id),
    dish_id       INTEGER NOT NULL REFERENCES dim_dish(dish_id),
    price         NUMERIC(10,2) NOT NULL,
    rating        NUMERIC(3,1) NOT NULL,
    rating_count  INTEGER NOT NULL,
    row_hash      BIGINT NOT NULL
);

-- Indexes for the reporting battery
CREATE INDEX IF NOT EXISTS idx_fact_orders_date ON fact_orders(date_id);
CREATE INDEX IF NOT EXISTS idx_fact_orders_location ON fact_orders(location_id);
CREATE INDEX IF NOT EXISTS idx_fact_orders_restaurant ON fact_orders(restaurant_id);
CREATE INDEX IF NOT EXISTS idx_fact_orders_category ON fact_orders(category_id);
CREATE INDEX IF NOT EXISTS idx_fact_orders_dish ON fact_orders(dish_id);
`

// Drop schema SQL. Order matters for the foreign keys.
const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_orders CASCADE;
DROP TABLE IF EXISTS dim_dish CASCADE;
DROP TABLE IF EXISTS dim_category CASCADE;
DROP TABLE IF EXISTS dim_restaurant CASCADE;
DROP TABLE IF EXISTS dim_location CASCADE;
DROP TABLE IF EXISTS dim_date CASCADE;
DROP TABLE IF EXISTS staging_orders CASCADE;
`

// CreateSchema creates the star schema.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the star schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}
