// Package scaffold creates operator-edited configuration files by copying
// their templates, once. An existing target is never touched.
package scaffold
