package domain

import "reflect"

// Equivalence compares the user-editable state of two records, ignoring the
// audit stamps of the embedded resource. Updates that change nothing are
// skipped based on these checks, so a redundant PUT never churns
// updated_at.

func (r Resource) equivalent(o Resource) bool {
	return r.Access == o.Access && reflect.DeepEqual(r.Tags, o.Tags)
}

func (u User) Equivalent(o User) bool {
	return u.ExtID == o.ExtID &&
		u.Nickname == o.Nickname &&
		eqStringPtr(u.Email, o.Email) &&
		u.Resource.equivalent(o.Resource)
}

func (v Video) Equivalent(o Video) bool {
	return v.ExtID == o.ExtID && v.Resource.equivalent(o.Resource)
}

func (t Track) Equivalent(o Track) bool {
	return t.VideoID == o.VideoID &&
		t.Name == o.Name &&
		eqStringPtr(t.Description, o.Description) &&
		eqStringPtr(t.Settings, o.Settings) &&
		t.Resource.equivalent(o.Resource)
}

func (a Annotation) Equivalent(o Annotation) bool {
	return a.TrackID == o.TrackID &&
		a.Start == o.Start &&
		eqFloatPtr(a.Duration, o.Duration) &&
		a.Content == o.Content &&
		a.CreatedFromQuestionnaire == o.CreatedFromQuestionnaire &&
		eqStringPtr(a.Settings, o.Settings) &&
		a.Resource.equivalent(o.Resource)
}

func (s Scale) Equivalent(o Scale) bool {
	return eqInt64Ptr(s.VideoID, o.VideoID) &&
		s.Name == o.Name &&
		eqStringPtr(s.Description, o.Description) &&
		s.Resource.equivalent(o.Resource)
}

func (v ScaleValue) Equivalent(o ScaleValue) bool {
	return v.ScaleID == o.ScaleID &&
		v.Name == o.Name &&
		v.Value == o.Value &&
		v.Order == o.Order &&
		v.Resource.equivalent(o.Resource)
}

func (q Questionnaire) Equivalent(o Questionnaire) bool {
	return eqInt64Ptr(q.VideoID, o.VideoID) &&
		q.Title == o.Title &&
		q.Content == o.Content &&
		eqStringPtr(q.Settings, o.Settings) &&
		q.Resource.equivalent(o.Resource)
}

func (c Category) Equivalent(o Category) bool {
	return eqStringPtr(c.SeriesExtID, o.SeriesExtID) &&
		eqInt64Ptr(c.SeriesCategoryID, o.SeriesCategoryID) &&
		eqInt64Ptr(c.VideoID, o.VideoID) &&
		eqInt64Ptr(c.ScaleID, o.ScaleID) &&
		c.Name == o.Name &&
		eqStringPtr(c.Description, o.Description) &&
		eqStringPtr(c.Settings, o.Settings) &&
		c.Resource.equivalent(o.Resource)
}

func (l Label) Equivalent(o Label) bool {
	return eqInt64Ptr(l.SeriesLabelID, o.SeriesLabelID) &&
		l.CategoryID == o.CategoryID &&
		l.Value == o.Value &&
		l.Abbreviation == o.Abbreviation &&
		eqStringPtr(l.Description, o.Description) &&
		eqStringPtr(l.Settings, o.Settings) &&
		l.Resource.equivalent(o.Resource)
}

func (c Comment) Equivalent(o Comment) bool {
	return c.AnnotationID == o.AnnotationID &&
		eqInt64Ptr(c.ReplyToID, o.ReplyToID) &&
		c.Text == o.Text &&
		c.Resource.equivalent(o.Resource)
}

func eqStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
