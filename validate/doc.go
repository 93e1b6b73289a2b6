// Package validate produces a single trustworthy answer to a prompt by
// sampling a vendor's high-quality model several times, cross-checking
// the samples for consistency with that vendor's budget model, and
// retrying the whole cycle on disagreement up to a bound.
//
// One consistency round is: 3 concurrent samples from the high model,
// a barrier, then one judge call to the budget model carrying all three
// texts. The judge either returns the authoritative answer or the
// %FALSE% sentinel. Rounds repeat until the judge accepts or the
// attempt budget (default 5) runs out; exhaustion is reported as
// Result.Accepted=false, not as an error, because real vendor charges
// were already incurred and the caller must see the total.
//
// Retryable vendor failures (rate limits, timeouts, transient
// unavailability) abort the current round, count against the attempt
// budget, and trigger a retry. Non-retryable failures (bad API key,
// malformed request) abort immediately with *FatalVendorError carrying
// the cost accrued so far.
package validate
