// Package fuzztests holds go-fuzz targets for the script front end.
//
// Запуск: go test ./internal/fuzz -run=^$ -fuzz=FuzzParserNoHang -fuzztime=30s
package fuzztests
