// Package tramit extracts structured records from public municipal-procedure
// web pages. A page is fetched once, parsed, and reduced to a title, a
// description, requirement and procedure blocks, additional notes and the
// normalized page text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package tramit
