// Package query answers the two report questions over a cleaned dataset
// using gota dataframes: the latest five days for one country, and lifetime
// totals for every country.
package query
