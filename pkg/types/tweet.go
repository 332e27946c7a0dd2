// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Tweet is a status as returned by the v1.1 search API in extended mode.
type Tweet struct {
	ID               int64     `json:"id"`
	IDStr            string    `json:"id_str"`
	FullText         string    `json:"full_text,omitempty"`
	Text             string    `json:"text,omitempty"`
	CreatedAt        string    `json:"created_at"`
	User             User      `json:"user"`
	Entities         Entities  `json:"entities"`
	ExtendedEntities *Entities `json:"extended_entities,omitempty"`
	RetweetedStatus  *Tweet    `json:"retweeted_status,omitempty"`
}

// User is the author of a tweet.
type User struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name,omitempty"`
}

// Entities carries the structured parts of a tweet body.
type Entities struct {
	Hashtags []Hashtag `json:"hashtags"`
	Media    []Media   `json:"media,omitempty"`
}

// Hashtag is a single #tag occurrence.
type Hashtag struct {
	Text    string `json:"text"`
	Indices []int  `json:"indices,omitempty"`
}

// Media is an attached photo, video or animated gif.
type Media struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	MediaURLHTTPS string `json:"media_url_https"`
	ExpandedURL   string `json:"expanded_url,omitempty"`
}

// IDString returns the decimal tweet id, preferring the id_str field.
func (t Tweet) IDString() string {
	if t.IDStr != "" {
		return t.IDStr
	}
	return strconv.FormatInt(t.ID, 10)
}

// Content returns the full text in extended mode, falling back to text.
func (t Tweet) Content() string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}

// AllMedia returns extended media when present, otherwise entity media.
func (t Tweet) AllMedia() []Media {
	if t.ExtendedEntities != nil && len(t.ExtendedEntities.Media) > 0 {
		return t.ExtendedEntities.Media
	}
	return t.Entities.Media
}

// noneValue is how an absent metadata value is rendered. Downstream
// consumers of the capture output match on it.
const noneValue = "None"

// Record is the normalized output shape of one tweet.
type Record struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	TweetContent string         `json:"tweet_content"`
	Metadata     RecordMetadata `json:"metadata"`
}

// RecordMetadata holds string renderings of the tweet sub-objects, not
// structured values.
type RecordMetadata struct {
	Media       string `json:"media"`
	Hashtags    string `json:"hashtags"`
	CreatedDate string `json:"created_date"`
	RetweetData string `json:"retweet_data"`
}

// NewRecord normalizes t.
func NewRecord(t Tweet) Record {
	r := Record{
		ID:           t.IDString(),
		Username:     t.User.ScreenName,
		TweetContent: t.Content(),
		Metadata: RecordMetadata{
			Media:       noneValue,
			Hashtags:    stringify(t.Entities.Hashtags),
			CreatedDate: t.CreatedAt,
			RetweetData: noneValue,
		},
	}
	if media := t.AllMedia(); len(media) > 0 {
		r.Metadata.Media = stringify(media)
	}
	if t.RetweetedStatus != nil {
		r.Metadata.RetweetData = stringify(t.RetweetedStatus)
	}
	return r
}

// JSON encodes r as a single-line JSON document.
func (r Record) JSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding record %s: %w", r.ID, err)
	}
	return string(data), nil
}

// stringify renders v as compact JSON. Nil slices render as "[]".
func stringify(v any) string {
	switch x := v.(type) {
	case []Hashtag:
		if x == nil {
			return "[]"
		}
	case []Media:
		if x == nil {
			return "[]"
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Trend is one entry of a trends/place response.
type Trend struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Query       string `json:"query"`
	TweetVolume *int64 `json:"tweet_volume"`
}
