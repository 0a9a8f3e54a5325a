// Package pdf provides the Extractor for PDF documents.
// It yields one RawTextUnit per page, labelled "page N", in document order.
//
// Page text comes from a PageReader. LibraryReader parses the file in
// process with github.com/ledongthuc/pdf; ToolReader shells out to
// poppler's pdftotext for documents the library cannot lay out well.
package pdf
