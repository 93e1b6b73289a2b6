// Package tokens estimates token counts for vendors that do not
// report usage on their responses.
//
// The registry marks such models with tokens_provided=false; the
// router then runs the prompt and response text through a Counter so
// cost calculation still has counts to multiply. Estimation uses a
// characters-per-token heuristic (~4 chars/token for English text) and
// is approximate by nature — vendors that do report usage are always
// preferred.
package tokens
