// Package http implements the HTTP handlers of the report service.
// Handlers stay thin: they read route and query parameters, validate them,
// call a service and turn the result or error into a response.
//
// # Routes
//
//	GET /api/http_trigger                                       400, endpoint missing
//	GET /api/http_trigger/{endpoint}                            total-data
//	GET /api/http_trigger/{endpoint}/{countryterritoryCode}     rolling-five-days
//	GET /api/health, /api/health/ready, /api/health/live        health
//	GET /api/version                                            build info
//
// Every report route accepts ?format=json|csv|xlsx. JSON is the default; csv
// and xlsx are sent as attachments.
//
// # Errors
//
// Validation runs before the service is called, so a bad request never
// reaches the dataset source. Error bodies are plain text and carry an
// X-Error-Code header:
//
//	400  endpoint missing or unknown, country code missing, bad format
//	404  no data, or no rows for the country
//	500  "Error: <message>" for load, clean, query or storage faults
//	504  the request deadline expired
package http
