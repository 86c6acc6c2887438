// Package domain define contratos e tipos de domínio para o despacho de requisições
// com limite de concorrência por "lanes" e o registro de resultados por lane.
//
// Este pacote não depende de implementações concretas (redis, http, prometheus).
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
