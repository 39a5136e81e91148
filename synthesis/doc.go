// Package synthesis turns investigation findings into support reports
// without a model call. Keyword tables map knowledge-base findings and
// campaign execution results to root causes, contributing factors and
// prioritized recommendations; fixed markdown templates render them into
// the final analysis delivered to the user.
//
// The Engine is deterministic: identical findings produce identical reports
// apart from the timestamp, and tests pin the Clock to compare full
// renderings. Degraded inputs degrade the report rather than failing it,
// so the technical pipeline always has a solution to deliver.
package synthesis
