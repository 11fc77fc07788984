// Package speech turns untrusted request text into a spoken phrase. It owns
// the denylist sanitizer and the invoker that hands the sanitized text to the
// operating system speech executable as a single argument.
package speech
