// Package render renders server side pages out of views wrapped in a layout.
//
// The root filesystem holds one folder per template. A template folder
// contains views and the layout file layout/layout.<ext>:
//
//	default/
//	    home.html
//	    blog/post.html
//	    layout/layout.html
//
// A [Renderer] resolves view paths such as "default/blog/post", executes the
// queued views with the merged global and call data, and executes the layout
// with the same data plus the concatenated views output bound to "views".
// Files are html/template templates; files with the "md" extension are
// converted from markdown after execution. Views may include other views
// with the partial function:
//
//	{{partial "default/menu" .}}
//
// Failures are recorded rather than returned. A renderer with recorded
// failures renders an empty string, Errors and the error handler tell why.
//
// Example Usage:
//
//	r, err := render.NewDir("templates")
//	if err != nil {
//	    // handle error
//	}
//
//	r.AddGlobals(render.Data{"Site": "My site"})
//
//	html := r.AddPath("default/home").
//	    SetData(render.Data{"Title": "Home"}).
//	    Render()
//	if err := r.Err(); err != nil {
//	    // handle error
//	}
package render
