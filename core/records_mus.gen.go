// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapvectf4EtQXwNHsYXrjttWwΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceZCUa5dKZG3niolfjfKxpWQΞΞ = ord.NewSliceSer[string](ord.String)
	slicemXhuTrLaIΣsJPjgIx6m86gΞΞ = ord.NewSliceSer[ContentItem](ContentItemMUS)
)

var SourceTypeMUS = sourceTypeMUS{}

type sourceTypeMUS struct{}

func (s sourceTypeMUS) Marshal(v SourceType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s sourceTypeMUS) Unmarshal(bs []byte) (v SourceType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = SourceType(tmp)
	return
}

func (s sourceTypeMUS) Size(v SourceType) (size int) {
	return varint.Int.Size(int(v))
}

func (s sourceTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var ContentItemMUS = contentItemMUS{}

type contentItemMUS struct{}

func (s contentItemMUS) Marshal(v ContentItem, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceName, bs)
	n += SourceTypeMUS.Marshal(v.SourceType, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.PublishedAt, bs[n:])
	n += ord.String.Marshal(v.Author, bs[n:])
	n += sliceZCUa5dKZG3niolfjfKxpWQΞΞ.Marshal(v.Tags, bs[n:])
	return n + mapvectf4EtQXwNHsYXrjttWwΞΞ.Marshal(v.Metadata, bs[n:])
}

func (s contentItemMUS) Unmarshal(bs []byte) (v ContentItem, n int, err error) {
	v.SourceName, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SourceType, n1, err = SourceTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PublishedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Author, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = sliceZCUa5dKZG3niolfjfKxpWQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapvectf4EtQXwNHsYXrjttWwΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s contentItemMUS) Size(v ContentItem) (size int) {
	size = ord.String.Size(v.SourceName)
	size += SourceTypeMUS.Size(v.SourceType)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.URL)
	size += raw.TimeUnixMicro.Size(v.PublishedAt)
	size += ord.String.Size(v.Author)
	size += sliceZCUa5dKZG3niolfjfKxpWQΞΞ.Size(v.Tags)
	return size + mapvectf4EtQXwNHsYXrjttWwΞΞ.Size(v.Metadata)
}

func (s contentItemMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = SourceTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceZCUa5dKZG3niolfjfKxpWQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapvectf4EtQXwNHsYXrjttWwΞΞ.Skip(bs[n:])
	n += n1
	return
}

var CacheEnvelopeMUS = cacheEnvelopeMUS{}

type cacheEnvelopeMUS struct{}

func (s cacheEnvelopeMUS) Marshal(v CacheEnvelope, bs []byte) (n int) {
	n = slicemXhuTrLaIΣsJPjgIx6m86gΞΞ.Marshal(v.Items, bs)
	return n + raw.TimeUnixMicro.Marshal(v.WrittenAt, bs[n:])
}

func (s cacheEnvelopeMUS) Unmarshal(bs []byte) (v CacheEnvelope, n int, err error) {
	v.Items, n, err = slicemXhuTrLaIΣsJPjgIx6m86gΞΞ.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.WrittenAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s cacheEnvelopeMUS) Size(v CacheEnvelope) (size int) {
	size = slicemXhuTrLaIΣsJPjgIx6m86gΞΞ.Size(v.Items)
	return size + raw.TimeUnixMicro.Size(v.WrittenAt)
}

func (s cacheEnvelopeMUS) Skip(bs []byte) (n int, err error) {
	n, err = slicemXhuTrLaIΣsJPjgIx6m86gΞΞ.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
