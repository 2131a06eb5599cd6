// Package domain models the Montreal bicycle collision dataset and the
// categorical labelling rules applied to it before it is drawn on a map.
//
// # Data Source
//
// Collisions come from the City of Montreal road collision open data
// (SAAQ police reports), filtered to collisions involving a bicycle and
// exported as a GeoJSON FeatureCollection of points ("bikes.geojson"). An
// upstream data-preparation step adds an ON_BIKELANE flag by intersecting
// each point with the municipal cycling network ("reseau_cyclable.json").
//
// # Property Conventions
//
// Each accident feature carries:
//
//	NO_SEQ_COLL    collision sequence number, opaque identifier
//	GRAVITE        free-text severity in French, e.g. "Mortel", "Grave", "Léger", "Dommages matériels seulement"
//	CD_COND_METEO  weather code, 11-19 or 99
//	CD_ECLRM       lighting code, 1-4
//	ON_BIKELANE    boolean-like flag computed upstream
//
// Codes arrive as numbers, numeric strings ("14", "014", "14.0"), blanks,
// or the pandas export sentinels "nan" and "None". Every code is reduced
// to a canonical key by [NormalizeCode] before any lookup.
//
// # Fallback Labels
//
// Missing or unrecognized values never raise errors. Weather and lighting
// fall back to "Undefined". Severity falls back to "No Injury", not
// "Undefined": an unlabelled collision report is one without a recorded
// injury. The bike-lane flag falls back to "Off Bike Lane".
//
// Severity keywords:
//
//	"mortel", "grave"  ->  Fatal/Hospitalization
//	"léger"            ->  Injury
//	anything else      ->  No Injury
//
// Fatal/grave is tested before léger.
//
// # Distributions
//
// [Aggregate] tallies one attribute across all records and reports each
// label's share of the total rounded to one decimal place. Buckets follow
// the fixed table order of the attribute so output is stable across runs.
// An empty record set is an error ([ErrEmptyDataset]) rather than a
// division by zero.
package domain
