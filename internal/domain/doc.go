// Package domain models the EPEA (Estación Permanente de Estudios Ambientales)
// survey visit table and the campaign calendar derived from it.
//
// # Data Source
//
// The station's operators keep one spreadsheet row per ship visit and export
// it as "tablita_V2.csv". Each row names the visit (EPEA_Nro, Cruise), its
// date (Year, Month, Day, plus the three-letter Month_ key), the visit type
// (Tipo_visita), the ship code (Barco) and one column per measured variable.
//
// # Table Conventions
//
// Placeholders:
//
//	"NA" is the sentinel for "no value". A row whose EPEA_Nro or Barco is "NA"
//	is a calendar placeholder: it records the month but contributes no visit.
//	Variable cells count as measured when, trimmed, they are non-empty and not "NA".
//
// Month keys (Spanish, never locale-derived):
//
//	ene feb mar abr may jun jul ago sep oct nov dic
//
// Variables, in the order used for filtering and output:
//
//	Temp Sal NTS OD pH AT Cla ABSO CDOM PP BACT FITO ZOO ICTIO
//
// # Campaigns
//
// A campaign is the summary of one (year, month) slot. Every slot between the
// first and last observed year is emitted, so the front end can draw a full
// year x month grid:
//
//	nro_visitas: null (no visits) | "unica" (one) | "multiple" (two or more)
//	tipo:        "NA" | the shared visit type | distinct types joined by "_"
//	variables:   union of the visits' variables, in canonical order
//
// The "config" object of the published document belongs to the front end's
// operators. It is carried over from the previous document untouched.
package domain
