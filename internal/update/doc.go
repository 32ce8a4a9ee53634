// Package update orchestrates the java-image-update pipeline: it walks the
// repository list and, per repository, ensures a checkout, detects the Java
// level, selects a container image, renders the CircleCI configuration, and
// publishes the change. Per-repository failures are logged and skipped; only
// list and template loading abort the run.
package update
