// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - LanePool: conjunto livre protegido por mutex + canal de notificações de release
//   - MemoryTraceLedger: contadores por lane em memória
//   - RedisOutcomeMirror: espelho best-effort dos resultados no Redis
//   - HTTPTransport, RedisListTransport, PacedTransport (golang.org/x/time/rate)
//   - LaneCollector: métricas Prometheus a partir do ledger e do pool
package infra
