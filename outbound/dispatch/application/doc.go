// Package application contém o caso de uso de despacho:
// acquire -> encode -> transport -> record -> release.
//
// Ele depende apenas do pacote domain (e de go-logr para log).
// Ex.: DispatchService.Send(ctx, req) só devolve erro quando o encoding falha.
package application
