// Package pipeline holds the pure stages of a KPI run: cleaning the raw
// tables, aggregating them into client-month facts and deriving KPIs.
//
// Stages never print or touch the filesystem; they return their results
// together with counters and recoverable issues for the caller to report.
package pipeline
