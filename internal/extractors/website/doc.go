// Package website provides the Extractor for http and https URLs.
// One GET is made per run; the decoded body and the response headers
// become the "body" and "headers" units.
package website
