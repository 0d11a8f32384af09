// Package secrets scrubs credentials out of text before chatops quotes it
// in a public comment.
//
// Failure reports embed the tail of the run log. Anything matching a rule,
// or any value registered as a mask, is replaced before the comment is
// built. Findings keep the rule and position but never the matched text.
package secrets
