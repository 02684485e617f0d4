package server

var AutofillKey = autofillKey
