// Package jsdom implements dom.Element over syscall/js for the browser build.
// Everything except this file is compiled only for js/wasm.
package jsdom
