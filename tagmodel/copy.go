package tagmodel

import "reflect"

// CopyTo copies canonical properties from src into dst, restricted to the
// categories named in opts (spec §4.N). A property whose category is
// excluded from opts.Categories is skipped without an issue. A property dst
// does not support natively is skipped too; when src holds a value for it,
// the drop is recorded as an Info issue, not an error. Pictures are deep
// copied (their backing byte slices cloned) so src and dst never alias
// mutable picture data.
func CopyTo(dst, src Tag, opts CopyOptions) []Issue {
	var issues []Issue

	srcVal := reflect.ValueOf(src.Props()).Elem()
	dstVal := reflect.ValueOf(dst.Props()).Elem()
	t := srcVal.Type()

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		cat, known := fieldCategory[name]
		if !known {
			continue
		}
		if cat&opts.Categories == 0 {
			continue
		}
		if !dst.Supports(name) {
			if !srcVal.Field(i).IsZero() {
				issues = append(issues, Issue{
					Field:    name,
					Severity: SeverityInfo,
					Message:  "field dropped: destination format does not support it",
				})
			}
			continue
		}

		sf := srcVal.Field(i)
		df := dstVal.Field(i)

		if name == "Pictures" {
			df.Set(reflect.ValueOf(clonePictures(src.Props().Pictures)))
			continue
		}

		df.Set(cloneValue(sf))
	}

	return issues
}

func clonePictures(pics []Picture) []Picture {
	if pics == nil {
		return nil
	}
	out := make([]Picture, len(pics))
	for i, p := range pics {
		data := make([]byte, len(p.Data))
		copy(data, p.Data)
		out[i] = Picture{MIME: p.MIME, Type: p.Type, Description: p.Description, Data: data}
	}
	return out
}

// cloneValue deep-copies slice and pointer fields so src and dst share no
// backing storage after the copy.
func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		return out
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(v.Elem())
		return out
	default:
		return v
	}
}
