// Package attachments converts CLI-friendly attachment specifiers into
// EmailAttachment entities, sniffing MIME types and enforcing size limits so
// files can be added to spooled emails safely.
package attachments
