// Package readme extracts usage examples and installation snippets from
// package README documents.
//
// # Overview
//
// READMEs are free-form Markdown written for humans. This package applies a
// set of heuristics to recover the parts a tool can use:
//
//   - [ParseUsageExamples]: fenced code blocks from usage-like sections,
//     language tagged and de-duplicated
//   - [ExtractInstallationInstructions]: Podfile, Cartfile and Swift Package
//     Manager snippets
//   - [CleanContent]: the README with badges and HTML comments removed
//
// # Pipeline
//
// [ParseUsageExamples] runs the document through these stages:
//
//  1. [CleanContent] normalizes line endings and strips noise.
//  2. The section scanner splits the text at headings and keeps only
//     sections whose title matches one of [SectionRules].
//  3. [ExtractBlocks] finds fenced code blocks in each kept section.
//  4. [IsRelevant] drops noise such as version strings and bare URLs.
//  5. [DetectLanguage] tags blocks that have no declared language.
//  6. The line preceding each block becomes its description.
//  7. [Dedupe] removes repeated snippets.
//
// When no section yields an example, the whole document is scanned once more
// under the title "General Usage".
//
// # Rule Tables
//
// Classification is data-driven. [SectionRules], [NoiseRules],
// [EcosystemRules] and [LanguageRules] are ordered tables evaluated first
// match wins, so each rule can be inspected and tested on its own.
//
// # Errors
//
// Nothing in this package returns an error or panics on malformed input.
// Empty documents produce an empty result; invalid UTF-8 sequences are
// replaced with U+FFFD before parsing.
//
// All functions are pure and safe for concurrent use.
package readme
