// Package config defines releasifier settings used by the CLI and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the target platform, the output folder for release
// artifacts, extra search paths for helper executables, and the delta file
// extensions registered in content-type manifests.
package config
