// Package dispatch fornece o Dispatcher: envio de requisições para um Transport
// compartilhado com no máximo `capacity` chamadas em andamento, e contadores de
// sucesso/falha por lane.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (Lane, TraceRecord, Transport, Encoder)
//   - application: caso de uso de envio (acquire/encode/send/record/release)
//   - infra: implementações concretas (pool de lanes, ledger, redis, http, prometheus)
//   - dispatch (este pacote): fachada pública + wiring + handler HTTP do snapshot
//
// Fluxo de Send:
//
//  1. Adquire uma lane (bloqueia se todas estiverem ocupadas)
//  2. Serializa a requisição; se falhar, libera a lane e devolve *domain.EncodingError
//  3. Chama o Transport; sucesso ou falha vão para o ledger da lane
//  4. Libera a lane sempre
//
// Falhas de transporte nunca chegam ao chamador: elas só aparecem agregadas em
// TraceSnapshot (failed_requests_count).
package dispatch
